package types

// Hard links that refer to the same inode are siblings; each has its own
// identifier used to distinguish it from the others sharing that inode.

// JSiblingKeyT is the key half of a sibling-link record. The object
// identifier in Hdr is the shared inode number.
type JSiblingKeyT struct {
	Hdr JKeyT

	// SiblingId matches the object identifier of the corresponding
	// sibling-map record.
	SiblingId uint64
}

// JSiblingValT is the value half of a sibling-link record.
type JSiblingValT struct {
	ParentId uint64
	NameLen  uint16
	Name     []byte
}

// JSiblingMapKeyT is the key half of a sibling-map record. The object
// identifier in Hdr is the sibling's unique identifier.
type JSiblingMapKeyT struct {
	Hdr JKeyT
}

// JSiblingMapValT is the value half of a sibling-map record.
type JSiblingMapValT struct {
	FileId uint64
}
