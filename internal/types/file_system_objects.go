package types

// File-system objects store information about a part of the file system,
// like a directory or a file on disk. Each one is stored as one or more
// key/value records in a volume's file-system B-tree.

// JKeyT is the header at the beginning of every file-system key.
type JKeyT struct {
	// ObjIdAndType packs both the object's identifier and its record type.
	// The identifier is obj_id_and_type & ObjIdMask; the type is
	// (obj_id_and_type & ObjTypeMask) >> ObjTypeShift.
	ObjIdAndType uint64
}

// SystemObjIdMark is the smallest object identifier used by the system volume.
const SystemObjIdMark uint64 = 0x0fffffff00000000

// UidT is a user identifier.
type UidT uint32

// GidT is a group identifier.
type GidT uint32

// ModeT is a file mode, following POSIX file type and permission conventions.
type ModeT uint16

// JInodeKeyT is the key half of an inode record. The object identifier in
// Hdr is the inode number; the record type is always ApfsTypeInode.
type JInodeKeyT struct {
	Hdr JKeyT
}

// JInodeValT is the value half of an inode record.
type JInodeValT struct {
	// ParentId is the file-system object identifier of the parent directory.
	ParentId uint64

	// PrivateId identifies this file's data stream; it appears as the
	// owning object identifier on the physical extents that store the
	// file's data. Inodes without data use their own identifier here.
	PrivateId uint64

	CreateTime uint64
	ModTime    uint64
	ChangeTime uint64
	AccessTime uint64

	// InternalFlags holds the JInodeFlags bits describing this inode.
	InternalFlags uint64

	// NchildrenOrNlink is a union: the number of directory entries for a
	// directory inode, or the hard link count for a file inode. Use
	// Nchildren/Nlink rather than this field directly.
	NchildrenOrNlink int32

	DefaultProtectionClass CpKeyClassT
	WriteGenerationCounter uint32
	BsdFlags               uint32
	Owner                  UidT
	Group                  GidT
	Mode                   ModeT
	Pad1                   uint16

	// UncompressedSize is valid only when InodeHasUncompressedSize is set
	// in InternalFlags; otherwise this field is padding.
	UncompressedSize uint64

	// XFields holds the inode's extended fields, encoded as an
	// XFieldBlobT-shaped byte run.
	XFields []byte
}

// Nchildren returns the number of directory entries. Valid only when this
// inode represents a directory.
func (v *JInodeValT) Nchildren() int32 {
	return v.NchildrenOrNlink
}

// Nlink returns the hard link count. Valid only when this inode does not
// represent a directory.
func (v *JInodeValT) Nlink() int32 {
	return v.NchildrenOrNlink
}

// JDrecKeyT is the key half of a directory entry record, addressed by the
// entry's literal name.
type JDrecKeyT struct {
	Hdr     JKeyT
	NameLen uint16
	Name    []byte
}

// JDrecHashedKeyT is the key half of a directory entry record that carries
// a precomputed hash of its name instead of the name's raw length.
type JDrecHashedKeyT struct {
	Hdr JKeyT

	// NameLenAndHash packs the name length (including its terminating
	// null) in the low 10 bits (JDrecLenMask) and a 22-bit hash of the
	// name in the remaining bits (JDrecHashMask, shifted by JDrecHashShift).
	NameLenAndHash uint32
	Name           []byte
}

const JDrecLenMask uint32 = 0x000003ff
const JDrecHashMask uint32 = 0xfffff400
const JDrecHashShift uint32 = 10

// JDrecValT is the value half of a directory entry record.
type JDrecValT struct {
	FileId    uint64
	DateAdded uint64

	// Flags carries the entry's file type in its DrecTypeMask bits.
	Flags uint16

	XFields []byte
}

// JDirStatsKeyT is the key half of a directory-statistics record.
type JDirStatsKeyT struct {
	Hdr JKeyT
}

// JDirStatsValT is the value half of a directory-statistics record.
type JDirStatsValT struct {
	NumChildren uint64
	TotalSize   uint64
	ChainedKey  uint64
	GenCount    uint64
}

// JXattrKeyT is the key half of an extended attribute record.
type JXattrKeyT struct {
	Hdr     JKeyT
	NameLen uint16
	Name    []byte
}

// JXattrValT is the value half of an extended attribute record.
type JXattrValT struct {
	// Flags carries exactly one of XattrDataStream or XattrDataEmbedded.
	Flags uint16

	// XdataLen is the length of Xdata when XattrDataEmbedded is set;
	// otherwise it's ignored.
	XdataLen uint16

	// Xdata holds the attribute's bytes directly when XattrDataEmbedded
	// is set, or the little-endian data stream identifier otherwise.
	Xdata []byte
}

// JObjKinds represents the kind of a file-system record: whether it is
// new, an update to an existing snapshot's data, or pending deletion.
type JObjKinds uint8

const (
	ApfsKindAny          JObjKinds = 0
	ApfsKindNew          JObjKinds = 1
	ApfsKindUpdate       JObjKinds = 2
	ApfsKindDead         JObjKinds = 3
	ApfsKindUpdateRefcnt JObjKinds = 4
	ApfsKindInvalid      JObjKinds = 255
)

// JInodeFlags are the bits used by JInodeValT.InternalFlags.
type JInodeFlags uint64

const (
	InodeIsApfsPrivate         JInodeFlags = 0x00000001
	InodeMaintainDirStats      JInodeFlags = 0x00000002
	InodeDirStatsOrigin        JInodeFlags = 0x00000004
	InodeProtClassExplicit     JInodeFlags = 0x00000008
	InodeWasCloned             JInodeFlags = 0x00000010
	InodeFlagUnused            JInodeFlags = 0x00000020
	InodeHasSecurityEa         JInodeFlags = 0x00000040
	InodeBeingTruncated        JInodeFlags = 0x00000080
	InodeHasFinderInfo         JInodeFlags = 0x00000100
	InodeIsSparse              JInodeFlags = 0x00000200
	InodeWasEverCloned         JInodeFlags = 0x00000400
	InodeActiveFileTrimmed     JInodeFlags = 0x00000800
	InodePinnedToMain          JInodeFlags = 0x00001000
	InodePinnedToTier2         JInodeFlags = 0x00002000
	InodeHasRsrcFork           JInodeFlags = 0x00004000
	InodeNoRsrcFork            JInodeFlags = 0x00008000
	InodeAllocationSpilledover JInodeFlags = 0x00010000
	InodeFastPromote           JInodeFlags = 0x00020000
	InodeHasUncompressedSize   JInodeFlags = 0x00040000
	InodeIsPurgeable           JInodeFlags = 0x00080000
	InodeWantsToBePurgeable    JInodeFlags = 0x00100000
	InodeIsSyncRoot            JInodeFlags = 0x00200000
	InodeSnapshotCowExemption  JInodeFlags = 0x00400000

	InodeInheritedInternalFlags JInodeFlags = InodeMaintainDirStats | InodeSnapshotCowExemption
	InodeClonedInternalFlags    JInodeFlags = InodeHasRsrcFork | InodeNoRsrcFork | InodeHasFinderInfo | InodeSnapshotCowExemption
)

const ApfsValidInternalInodeFlags JInodeFlags = InodeIsApfsPrivate |
	InodeMaintainDirStats |
	InodeDirStatsOrigin |
	InodeProtClassExplicit |
	InodeWasCloned |
	InodeHasSecurityEa |
	InodeBeingTruncated |
	InodeHasFinderInfo |
	InodeIsSparse |
	InodeWasEverCloned |
	InodeActiveFileTrimmed |
	InodePinnedToMain |
	InodePinnedToTier2 |
	InodeHasRsrcFork |
	InodeNoRsrcFork |
	InodeAllocationSpilledover |
	InodeFastPromote |
	InodeHasUncompressedSize |
	InodeIsPurgeable |
	InodeWantsToBePurgeable |
	InodeIsSyncRoot |
	InodeSnapshotCowExemption

const ApfsInodePinnedMask JInodeFlags = InodePinnedToMain | InodePinnedToTier2

// JXattrFlags are the bits used by JXattrValT.Flags.
type JXattrFlags uint16

const (
	XattrDataStream      JXattrFlags = 0x00000001
	XattrDataEmbedded    JXattrFlags = 0x00000002
	XattrFileSystemOwned JXattrFlags = 0x00000004
	XattrReserved8       JXattrFlags = 0x00000008
)

// DirRecFlags are the bits used by JDrecValT.Flags.
type DirRecFlags uint16

const (
	DrecTypeMask DirRecFlags = 0x000f
	Reserved10   DirRecFlags = 0x0010
)
