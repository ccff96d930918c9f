package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// Entry is a single key-value pair extracted from a B-tree node, together
// with the index it occupies in the node's table of contents.
type Entry struct {
	Index int
	Key   []byte
	// Value is nil for a ghost entry (an allowed-ghosts tree's key with no
	// corresponding value).
	Value []byte
}

// btreeInfoSize is sizeof(btree_info_t): a root node's trailing fixed
// summary, carved out of the end of its storage area.
const btreeInfoSize = 40

// ExtractEntries reads every key-value pair out of a node's table of
// contents, honoring the node's fixed- or variable-size KV layout and its
// root-ness (root leaves reserve the trailing btree_info_t out of the value
// area). info supplies the tree-wide key/value sizes for fixed-size nodes.
func ExtractEntries(node interfaces.BTreeNodeReader, info interfaces.BTreeInfoReader) ([]Entry, error) {
	data := node.Data()
	keyCount := int(node.KeyCount())
	if keyCount == 0 {
		return nil, nil
	}

	tocStart := int(node.TableSpace().Off)
	tocLen := int(node.TableSpace().Len)
	if tocStart < 0 || tocStart+tocLen > len(data) {
		return nil, fmt.Errorf("table of contents [%d:%d] out of bounds (node data length %d)", tocStart, tocStart+tocLen, len(data))
	}
	keyAreaBase := tocStart + tocLen

	valAreaEnd := len(data)
	if node.IsRoot() {
		valAreaEnd -= btreeInfoSize
		if valAreaEnd < 0 {
			return nil, fmt.Errorf("node too small to hold a trailing btree_info_t")
		}
	}

	endian := binary.LittleEndian
	entries := make([]Entry, 0, keyCount)

	if node.HasFixedKVSize() {
		const tocEntrySize = 4 // kvoff_t: uint16 k, uint16 v
		keySize := int(info.KeySize())
		valSize := int(info.ValueSize())
		if !node.IsLeaf() {
			// A nonleaf node's values are always a bare, 8-byte oid_t
			// pointing at the child node, regardless of the tree's leaf
			// value size: nonleaf nodes carry BTNODE_FIXED_KV_SIZE whether
			// or not the tree's own leaves use fixed-size values.
			valSize = 8
		}
		if keySize == 0 {
			return nil, fmt.Errorf("fixed-size node requires a nonzero key size")
		}

		for i := 0; i < keyCount; i++ {
			tocOff := tocStart + i*tocEntrySize
			if tocOff+tocEntrySize > len(data) {
				return nil, fmt.Errorf("kvoff_t entry %d out of bounds", i)
			}
			k := endian.Uint16(data[tocOff : tocOff+2])
			v := endian.Uint16(data[tocOff+2 : tocOff+4])

			keyStart := keyAreaBase + int(k)
			if keyStart < 0 || keyStart+keySize > len(data) {
				return nil, fmt.Errorf("key %d [%d:%d] out of bounds", i, keyStart, keyStart+keySize)
			}
			key := append([]byte(nil), data[keyStart:keyStart+keySize]...)

			var value []byte
			if valSize > 0 {
				valStart := valAreaEnd - int(v)
				if valStart < 0 || valStart+valSize > len(data) {
					return nil, fmt.Errorf("value %d [%d:%d] out of bounds", i, valStart, valStart+valSize)
				}
				value = append([]byte(nil), data[valStart:valStart+valSize]...)
			}

			entries = append(entries, Entry{Index: i, Key: key, Value: value})
		}
		return entries, nil
	}

	const tocEntrySize = 8 // kvloc_t: nloc_t k{off,len}, nloc_t v{off,len}
	for i := 0; i < keyCount; i++ {
		tocOff := tocStart + i*tocEntrySize
		if tocOff+tocEntrySize > len(data) {
			return nil, fmt.Errorf("kvloc_t entry %d out of bounds", i)
		}
		kOff := endian.Uint16(data[tocOff : tocOff+2])
		kLen := endian.Uint16(data[tocOff+2 : tocOff+4])
		vOff := endian.Uint16(data[tocOff+4 : tocOff+6])
		vLen := endian.Uint16(data[tocOff+6 : tocOff+8])

		keyStart := keyAreaBase + int(kOff)
		if keyStart < 0 || keyStart+int(kLen) > len(data) {
			return nil, fmt.Errorf("key %d [%d:%d] out of bounds", i, keyStart, keyStart+int(kLen))
		}
		key := append([]byte(nil), data[keyStart:keyStart+int(kLen)]...)

		var value []byte
		if vOff != types.BtoffInvalid {
			valStart := valAreaEnd - int(vOff)
			if valStart < 0 || valStart+int(vLen) > len(data) {
				return nil, fmt.Errorf("value %d [%d:%d] out of bounds", i, valStart, valStart+int(vLen))
			}
			value = append([]byte(nil), data[valStart:valStart+int(vLen)]...)
		}

		entries = append(entries, Entry{Index: i, Key: key, Value: value})
	}
	return entries, nil
}

// ChildOID extracts the object identifier stored as the value of a nonleaf
// node's entry at index. Nonleaf node values are always a bare, fixed-size
// oid_t regardless of whether the tree's leaf values are fixed or variable
// size, since BTREE_FIXED_KV_SIZE is always set on the nonleaf nodes of
// such a tree.
func ChildOID(node interfaces.BTreeNodeReader, info interfaces.BTreeInfoReader, index int) (types.OidT, error) {
	entries, err := ExtractEntries(node, info)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(entries) {
		return 0, fmt.Errorf("child index %d out of range [0, %d)", index, len(entries))
	}
	value := entries[index].Value
	if len(value) < 8 {
		return 0, fmt.Errorf("nonleaf entry %d value too small to hold an oid_t: %d bytes", index, len(value))
	}
	return types.OidT(binary.LittleEndian.Uint64(value[:8])), nil
}
