package types

import "math"

// An object map uses a B-tree to map virtual object identifiers and
// transaction identifiers to the physical addresses where those objects
// are stored.

// OmapPhysT is an object map.
type OmapPhysT struct {
	OmO ObjPhysT

	OmFlags            uint32
	OmSnapCount        uint32
	OmTreeType         uint32
	OmSnapshotTreeType uint32

	OmTreeOid         OidT
	OmSnapshotTreeOid OidT

	OmMostRecentSnap   XidT
	OmPendingRevertMin XidT
	OmPendingRevertMax XidT
}

// OmapKeyT looks up an entry in the object map.
type OmapKeyT struct {
	OkOid OidT
	OkXid XidT
}

// OmapValT is a value in the object map.
type OmapValT struct {
	OvFlags uint32

	// OvSize is a multiple of the container's logical block size, even
	// for objects smaller than one block.
	OvSize uint32

	OvPaddr Paddr
}

// OmapSnapshotT describes a snapshot of an object map.
type OmapSnapshotT struct {
	OmsFlags uint32
	OmsPad   uint32
	OmsOid   OidT
}

// Object Map Value Flags

const OmapValDeleted uint32 = 0x00000001
const OmapValSaved uint32 = 0x00000002
const OmapValEncrypted uint32 = 0x00000004
const OmapValNoheader uint32 = 0x00000008
const OmapValCryptoGeneration uint32 = 0x00000010

// Snapshot Flags

const OmapSnapshotDeleted uint32 = 0x00000001
const OmapSnapshotReverted uint32 = 0x00000002

// Object Map Flags

const OmapManuallyManaged uint32 = 0x00000001
const OmapEncrypting uint32 = 0x00000002
const OmapDecrypting uint32 = 0x00000004
const OmapKeyrolling uint32 = 0x00000008
const OmapCryptoGeneration uint32 = 0x00000010
const OmapValidFlags uint32 = 0x0000001f

// OmapMaxSnapCount is the maximum number of snapshots an object map can hold.
const OmapMaxSnapCount uint32 = math.MaxUint32

// Object Map Reaper Phases

const OmapReapPhaseMapTree uint32 = 1
const OmapReapPhaseSnapshotTree uint32 = 2
