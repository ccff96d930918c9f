package types

// The reaper deletes large objects over a span of multiple transactions.
// A container has exactly one reaper.

// NxReaperPhysT is the main reaper structure.
type NxReaperPhysT struct {
	NrO ObjPhysT

	NrNextReapId  uint64
	NrCompletedId uint64

	NrHead OidT
	NrTail OidT

	NrFlags   uint32
	NrRlcount uint32
	NrType    uint32
	NrSize    uint32

	NrFsOid OidT
	NrOid   OidT
	NrXid   XidT

	NrNrleFlags       uint32
	NrStateBufferSize uint32
	NrStateBuffer     []byte
}

// NxReapListPhysT is a list of objects still to be reaped.
type NxReapListPhysT struct {
	NrlO ObjPhysT

	NrlNext  OidT
	NrlFlags uint32
	NrlMax   uint32
	NrlCount uint32
	NrlFirst uint32
	NrlLast  uint32
	NrlFree  uint32

	NrlEntries []NxReapListEntryT
}

// NxReapListEntryT is one entry in a reaper list.
type NxReapListEntryT struct {
	NrleNext  uint32
	NrleFlags uint32
	NrleType  uint32
	NrleSize  uint32

	NrleFsOid OidT
	NrleOid   OidT
	NrleXid   XidT
}

// Volume Reaper States

const (
	ApfsReapPhaseStart       = 0
	ApfsReapPhaseSnapshots   = 1
	ApfsReapPhaseActiveFs    = 2
	ApfsReapPhaseDestroyOmap = 3
	ApfsReapPhaseDone        = 4
)

// Reaper Flags

const NrBhmFlag uint32 = 0x00000001
const NrContinue uint32 = 0x00000002

// Reaper List Entry Flags

const NrleValid uint32 = 0x00000001
const NrleReapIdRecord uint32 = 0x00000002
const NrleCall uint32 = 0x00000004
const NrleCompletion uint32 = 0x00000008
const NrleCleanup uint32 = 0x00000010

// Reaper List Flags

const NrlIndexInvalid uint32 = 0xffffffff

// OmapReapStateT is the state used while reaping an object map.
type OmapReapStateT struct {
	OmrPhase uint32
	OmrOk    OmapKeyT
}

// OmapCleanupStateT is the state used while reaping deleted snapshots.
type OmapCleanupStateT struct {
	// OmcCleaning is zero when this structure has been allocated and
	// zeroed but doesn't yet hold valid data.
	OmcCleaning uint32
	OmcOmsflags uint32

	OmcSxidprev  XidT
	OmcSxidstart XidT
	OmcSxidend   XidT
	OmcSxidnext  XidT

	OmcCurkey OmapKeyT
}

// ApfsReapStateT is the state for reaping a volume's file-system objects.
type ApfsReapStateT struct {
	LastPbn    uint64
	CurSnapXid XidT
	Phase      uint32
}
