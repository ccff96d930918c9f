package types

// Directory entries and inodes use extended fields to store a dynamically
// extensible set of member fields.

// XfBlobT is a collection of extended fields.
type XfBlobT struct {
	XfNumExts  uint16
	XfUsedData uint16

	// XfData holds an array of XFieldT headers followed by their data.
	XfData []byte
}

// XFieldT is an extended field's metadata.
type XFieldT struct {
	XType  uint8
	XFlags uint8
	XSize  uint16
}

// Extended-Field Types

const DrecExtTypeSiblingId uint8 = 1

const InoExtTypeSnapXid uint8 = 1
const InoExtTypeDeltaTreeOid uint8 = 2
const InoExtTypeDocumentId uint8 = 3
const InoExtTypeName uint8 = 4
const InoExtTypePrevFsize uint8 = 5
const InoExtTypeReserved6 uint8 = 6
const InoExtTypeFinderInfo uint8 = 7
const InoExtTypeDstream uint8 = 8
const InoExtTypeReserved9 uint8 = 9
const InoExtTypeDirStatsKey uint8 = 10
const InoExtTypeFsUuid uint8 = 11
const InoExtTypeReserved12 uint8 = 12
const InoExtTypeSparseBytes uint8 = 13
const InoExtTypeRdev uint8 = 14
const InoExtTypePurgeableFlags uint8 = 15
const InoExtTypeOrigSyncRootId uint8 = 16

// Extended-Field Flags
// Left as untyped constants since callers pack them into both the uint8
// XFlags field of XFieldT and wider bitmasks.

const XfDataDependent = 0x0001
const XfDoNotCopy = 0x0002
const XfReserved4 = 0x0004
const XfChildrenInherit = 0x0008
const XfUserField = 0x0010
const XfSystemField = 0x0020
const XfReserved40 = 0x0040
const XfReserved80 = 0x0080
