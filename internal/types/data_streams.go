package types

// Short metadata like a file's name is stored inline; data too large to
// store inline — file contents, and some attribute values — lives in a
// separate data stream instead.

// JPhysExtKeyT is the key half of a physical extent record. The object
// identifier in Hdr is the physical block address where the extent starts.
type JPhysExtKeyT struct {
	Hdr JKeyT
}

// JPhysExtValT is the value half of a physical extent record.
type JPhysExtValT struct {
	// LenAndKind packs the extent's length in blocks (PextLenMask) and its
	// JObjKinds value (PextKindMask, shifted by PextKindShift).
	LenAndKind uint64

	// OwningObjId is the inode's private identifier, or an extended
	// attribute record's identifier, depending on what owns this extent.
	OwningObjId uint64

	// Refcnt reaching zero allows the extent to be deleted.
	Refcnt int32
}

const PextLenMask uint64 = 0x0fffffffffffffff
const PextKindMask uint64 = 0xf000000000000000
const PextKindShift uint64 = 60

// JFileExtentKeyT is the key half of a file extent record.
type JFileExtentKeyT struct {
	Hdr JKeyT

	// LogicalAddr is the byte offset within the file's data covered by this extent.
	LogicalAddr uint64
}

// JFileExtentValT is the value half of a file extent record.
type JFileExtentValT struct {
	// LenAndFlags packs the extent's byte length (JFileExtentLenMask,
	// always a multiple of the container's block size) and flags
	// (JFileExtentFlagMask, shifted by JFileExtentFlagShift).
	LenAndFlags uint64

	PhysBlockNum uint64

	// CryptoId is the AES-XTS tweak directly when the volume uses a
	// single volume-wide key, or else the identifier of the
	// JCryptoKeyT record describing this extent's per-file key.
	CryptoId uint64
}

const JFileExtentLenMask uint64 = 0x00ffffffffffffff
const JFileExtentFlagMask uint64 = 0xff00000000000000
const JFileExtentFlagShift uint64 = 56

// JDstreamIdKeyT is the key half of a data stream record.
type JDstreamIdKeyT struct {
	Hdr JKeyT
}

// JDstreamIdValT is the value half of a data stream record.
type JDstreamIdValT struct {
	// Refcnt reaching zero allows the data stream record to be deleted.
	Refcnt uint32
}

// JXattrDstreamT is a data stream used to hold an extended attribute's value.
type JXattrDstreamT struct {
	XattrObjId uint64
	Dstream    JDstreamT
}

// JDstreamT describes a data stream.
type JDstreamT struct {
	Size        uint64
	AllocedSize uint64

	// DefaultCryptoId is used as the crypto_id for file extents in this
	// stream that don't override it; always CryptoSwId under software encryption.
	DefaultCryptoId uint64

	TotalBytesWritten uint64
	TotalBytesRead    uint64
}

// FextCryptoIdIsTweak marks a file extent's crypto_id as a raw AES-XTS tweak.
const FextCryptoIdIsTweak uint32 = 0x01
