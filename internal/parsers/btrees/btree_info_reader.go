package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// btreeInfoReader implements interfaces.BTreeInfoReader over a parsed
// btree_info_t, the 40-byte summary a root node carries at the end of its
// storage area (btn_data[len(btn_data)-40:]).
type btreeInfoReader struct {
	info types.BtreeInfoT
}

// NewBTreeInfoReader parses the trailing btree_info_t out of a root node's
// data and returns a reader over it. Any node in a tree can be read with
// the same BTreeInfoReader once it's derived from the root, since the
// fields it exposes (key/value size, tree-wide flags) don't vary by node.
func NewBTreeInfoReader(rootNodeData []byte) (interfaces.BTreeInfoReader, error) {
	if len(rootNodeData) < btreeInfoSize {
		return nil, fmt.Errorf("root node data too small (%d bytes) to hold a btree_info_t", len(rootNodeData))
	}

	b := rootNodeData[len(rootNodeData)-btreeInfoSize:]
	endian := binary.LittleEndian

	return &btreeInfoReader{info: types.BtreeInfoT{
		BtFixed: types.BtreeInfoFixedT{
			BtFlags:    endian.Uint32(b[0:4]),
			BtNodeSize: endian.Uint32(b[4:8]),
			BtKeySize:  endian.Uint32(b[8:12]),
			BtValSize:  endian.Uint32(b[12:16]),
		},
		BtLongestKey: endian.Uint32(b[16:20]),
		BtLongestVal: endian.Uint32(b[20:24]),
		BtKeyCount:   endian.Uint64(b[24:32]),
		BtNodeCount:  endian.Uint64(b[32:40]),
	}}, nil
}

func (r *btreeInfoReader) Flags() uint32      { return r.info.BtFixed.BtFlags }
func (r *btreeInfoReader) NodeSize() uint32   { return r.info.BtFixed.BtNodeSize }
func (r *btreeInfoReader) KeySize() uint32    { return r.info.BtFixed.BtKeySize }
func (r *btreeInfoReader) ValueSize() uint32  { return r.info.BtFixed.BtValSize }
func (r *btreeInfoReader) LongestKey() uint32 { return r.info.BtLongestKey }
func (r *btreeInfoReader) LongestValue() uint32 { return r.info.BtLongestVal }
func (r *btreeInfoReader) KeyCount() uint64   { return r.info.BtKeyCount }
func (r *btreeInfoReader) NodeCount() uint64  { return r.info.BtNodeCount }

func (r *btreeInfoReader) HasUint64Keys() bool          { return r.info.BtFixed.BtFlags&types.BtreeUint64Keys != 0 }
func (r *btreeInfoReader) SupportsSequentialInsert() bool {
	return r.info.BtFixed.BtFlags&types.BtreeSequentialInsert != 0
}
func (r *btreeInfoReader) AllowsGhosts() bool  { return r.info.BtFixed.BtFlags&types.BtreeAllowGhosts != 0 }
func (r *btreeInfoReader) IsEphemeral() bool   { return r.info.BtFixed.BtFlags&types.BtreeEphemeral != 0 }
func (r *btreeInfoReader) IsPhysical() bool    { return r.info.BtFixed.BtFlags&types.BtreePhysical != 0 }
func (r *btreeInfoReader) IsPersistent() bool  { return r.info.BtFixed.BtFlags&types.BtreeNonpersistent == 0 }
func (r *btreeInfoReader) HasAlignedKV() bool  { return r.info.BtFixed.BtFlags&types.BtreeKvNonaligned == 0 }
func (r *btreeInfoReader) IsHashed() bool      { return r.info.BtFixed.BtFlags&types.BtreeHashed != 0 }
func (r *btreeInfoReader) HasHeaderlessNodes() bool {
	return r.info.BtFixed.BtFlags&types.BtreeNoheader != 0
}

var _ interfaces.BTreeInfoReader = (*btreeInfoReader)(nil)
