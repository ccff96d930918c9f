package types

// NxSuperblockT is the container superblock: the top-level object shared
// by every volume in the container.
type NxSuperblockT struct {
	NxO ObjPhysT

	// NxMagic is always NxMagic; it verifies that this is a container superblock.
	NxMagic     uint32
	NxBlockSize uint32

	NxBlockCount                 uint64
	NxFeatures                   uint64
	NxReadonlyCompatibleFeatures uint64
	NxIncompatibleFeatures       uint64
	NxUuid                       UUID

	NxNextOid OidT
	NxNextXid XidT

	// NxXpDescBlocks and NxXpDataBlocks count blocks in the checkpoint
	// descriptor and data areas; their highest bit is a layout flag and
	// must be masked off before use as a count.
	NxXpDescBlocks uint32
	NxXpDataBlocks uint32
	NxXpDescBase   Paddr
	NxXpDataBase   Paddr
	NxXpDescNext   uint32
	NxXpDataNext   uint32
	NxXpDescIndex  uint32
	NxXpDescLen    uint32
	NxXpDataIndex  uint32
	NxXpDataLen    uint32

	NxSpacemanOid OidT
	NxOmapOid     OidT
	NxReaperOid   OidT

	NxTestType       uint32
	NxMaxFileSystems uint32

	// NxFsOid holds the virtual object identifiers of the container's
	// volumes, each a B-tree of subtype ObjectTypeFstree.
	NxFsOid  [NxMaxFileSystems]OidT
	NxCounters [NxNumCounters]uint64

	NxBlockedOutPrange    Prange
	NxEvictMappingTreeOid OidT
	NxFlags               uint64
	NxEfiJumpstart        Paddr
	NxFusionUuid          UUID
	NxKeylocker           Prange
	NxEphemeralInfo       [NxEphInfoCount]uint64

	NxTestOid OidT

	NxFusionMtOid  OidT
	NxFusionWbcOid OidT
	NxFusionWbc    Prange

	NxNewestMountedVersion uint64
	NxMkbLocker            Prange
}

// NxMagic ('BSXN' on disk, reading as "NXSB" in a hex dump) identifies a
// container superblock.
const NxMagic uint32 = 'N' | 'X'<<8 | 'S'<<16 | 'B'<<24

const NxMaxFileSystems = 100
const NxEphInfoCount = 4
const NxEphMinBlockCount = 8
const NxMaxFileSystemEphStructs = 4
const NxTxMinCheckpointCount = 4
const NxEphInfoVersion1 = 1

// Container Flags

const NxReserved1 uint64 = 0x00000001
const NxReserved2 uint64 = 0x00000002
const NxCryptoSw uint64 = 0x00000004

// Optional Container Feature Flags

const NxFeatureDefrag uint64 = 0x0000000000000001
const NxFeatureLcfd uint64 = 0x0000000000000002
const NxSupportedFeaturesMask uint64 = NxFeatureDefrag | NxFeatureLcfd

// Read-Only Compatible Container Feature Flags

const NxSupportedRocompatMask uint64 = 0x0

// Incompatible Container Feature Flags

const NxIncompatVersion1 uint64 = 0x0000000000000001
const NxIncompatVersion2 uint64 = 0x0000000000000002
const NxIncompatFusion uint64 = 0x0000000000000100
const NxSupportedIncompatMask uint64 = NxIncompatVersion2 | NxIncompatFusion

// Block and Container Sizes

const NxMinimumBlockSize = 4096
const NxDefaultBlockSize = 4096
const NxMaximumBlockSize = 65536
const NxMinimumContainerSize = 1048576

// NxCounterIdT indexes a container superblock's array of diagnostic counters.
type NxCounterIdT int

const (
	NxCntrObjCksumSet  NxCounterIdT = 0
	NxCntrObjCksumFail NxCounterIdT = 1
	NxNumCounters                   = 32
)

// CheckpointMappingT maps an ephemeral object identifier to its physical
// address in the checkpoint data area.
type CheckpointMappingT struct {
	// CpmType and CpmSubtype mean the same as ObjPhysT's OType/OSubtype.
	CpmType    uint32
	CpmSubtype uint32
	CpmSize    uint32
	CpmPad     uint32
	CpmFsOid   OidT
	CpmOid     OidT
	CpmPaddr   Paddr
}

// CheckpointMapPhysT is a checkpoint-mapping block.
type CheckpointMapPhysT struct {
	CpmO     ObjPhysT
	CpmFlags uint32
	CpmCount uint32
	CpmMap   []CheckpointMappingT
}

// CheckpointMapLast marks the last checkpoint-mapping block in a checkpoint.
const CheckpointMapLast uint32 = 0x00000001

// EvictMappingValT is a range of physical blocks that data is being moved into.
type EvictMappingValT struct {
	DstPaddr Paddr
	Len      uint64
}
