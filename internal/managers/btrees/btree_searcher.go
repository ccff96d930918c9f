package btrees

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/parsers/btrees"
)

// btreeSearcher implements the BTreeSearcher interface
type btreeSearcher struct {
	navigator   interfaces.BTreeNavigator
	btreeInfo   interfaces.BTreeInfoReader
	keyComparer KeyComparer
}

// KeyComparer defines a function type for comparing keys. It returns a
// negative number if a sorts before b, zero if equal, positive otherwise.
// Each record kind in the file-system tree compares its key differently
// (oid+type first, then a kind-specific suffix), so the comparer is
// supplied per tree rather than hardcoded here.
type KeyComparer func(a, b []byte) int

// NewBTreeSearcher creates a new BTreeSearcher implementation
func NewBTreeSearcher(navigator interfaces.BTreeNavigator, btreeInfo interfaces.BTreeInfoReader, keyComparer KeyComparer) interfaces.BTreeSearcher {
	if keyComparer == nil {
		keyComparer = DefaultKeyComparer
	}

	return &btreeSearcher{
		navigator:   navigator,
		btreeInfo:   btreeInfo,
		keyComparer: keyComparer,
	}
}

// DefaultKeyComparer provides default byte-wise key comparison
func DefaultKeyComparer(a, b []byte) int {
	return bytes.Compare(a, b)
}

// OmapKeyComparer orders omap_key_t entries (an oid_t followed by an
// xid_t, both little-endian uint64) numerically by oid then by xid,
// matching the ordering the object map B-tree is built with. Plain
// byte-wise comparison doesn't work here since little-endian integers
// don't sort the same way as their byte representation.
func OmapKeyComparer(a, b []byte) int {
	aOid, aXid := binary.LittleEndian.Uint64(a[0:8]), binary.LittleEndian.Uint64(a[8:16])
	bOid, bXid := binary.LittleEndian.Uint64(b[0:8]), binary.LittleEndian.Uint64(b[8:16])
	switch {
	case aOid < bOid:
		return -1
	case aOid > bOid:
		return 1
	case aXid < bXid:
		return -1
	case aXid > bXid:
		return 1
	default:
		return 0
	}
}

// Find looks for a key in the B-tree and returns its associated value
func (searcher *btreeSearcher) Find(key []byte) ([]byte, error) {
	rootNode, err := searcher.navigator.GetRootNode()
	if err != nil {
		return nil, fmt.Errorf("failed to get root node: %w", err)
	}

	return searcher.findInNode(rootNode, key, 0)
}

// FindRange returns all key-value pairs within a given key range
func (searcher *btreeSearcher) FindRange(startKey []byte, endKey []byte) ([]interfaces.KeyValuePair, error) {
	if searcher.keyComparer(startKey, endKey) > 0 {
		return nil, fmt.Errorf("start key must be less than or equal to end key")
	}

	var results []interfaces.KeyValuePair

	err := searcher.traverseRange(startKey, endKey, func(key, value []byte) error {
		results = append(results, interfaces.KeyValuePair{
			Key:   append([]byte(nil), key...),
			Value: append([]byte(nil), value...),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to traverse range: %w", err)
	}

	return results, nil
}

// ContainsKey checks if a key exists in the B-tree
func (searcher *btreeSearcher) ContainsKey(key []byte) (bool, error) {
	_, err := searcher.Find(key)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// findInNode searches for a key within a specific node, descending at most
// maxDescentDepth levels before giving up on what must be a malformed tree.
func (searcher *btreeSearcher) findInNode(node interfaces.BTreeNodeReader, key []byte, depth int) ([]byte, error) {
	if depth > maxDescentDepth {
		return nil, fmt.Errorf("descent depth exceeded %d levels, tree is malformed or cyclic", maxDescentDepth)
	}

	if node.IsLeaf() {
		return searcher.findInLeaf(node, key)
	}

	return searcher.findInInternal(node, key, depth)
}

// findInLeaf searches for a key in a leaf node
func (searcher *btreeSearcher) findInLeaf(node interfaces.BTreeNodeReader, key []byte) ([]byte, error) {
	entries, err := btrees.ExtractEntries(node, searcher.btreeInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to extract node entries: %w", err)
	}

	for _, entry := range entries {
		if searcher.keyComparer(entry.Key, key) == 0 {
			if entry.Value == nil {
				return nil, fmt.Errorf("key found but has no value (ghost entry)")
			}
			return entry.Value, nil
		}
	}

	return nil, fmt.Errorf("key not found")
}

// findInInternal searches for a key in an internal node
func (searcher *btreeSearcher) findInInternal(node interfaces.BTreeNodeReader, key []byte, depth int) ([]byte, error) {
	childIndex, err := searcher.findChildIndex(node, key)
	if err != nil {
		return nil, fmt.Errorf("failed to find child index: %w", err)
	}

	childNode, err := searcher.navigator.GetChildNode(node, childIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get child node: %w", err)
	}

	return searcher.findInNode(childNode, key, depth+1)
}

// findChildIndex determines which child to follow for a given key. Each
// entry in a nonleaf node is the minimum key reachable through its
// corresponding child, one entry per child, so the correct child is the
// last entry whose key is <= the search key.
func (searcher *btreeSearcher) findChildIndex(node interfaces.BTreeNodeReader, key []byte) (int, error) {
	entries, err := btrees.ExtractEntries(node, searcher.btreeInfo)
	if err != nil {
		return 0, fmt.Errorf("failed to extract node entries: %w", err)
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("nonleaf node has no entries")
	}

	childIndex := 0
	for i, entry := range entries {
		if searcher.keyComparer(key, entry.Key) < 0 {
			break
		}
		childIndex = i
	}

	return childIndex, nil
}

// traverseRange traverses all key-value pairs within a range
func (searcher *btreeSearcher) traverseRange(startKey, endKey []byte, visitor func(key, value []byte) error) error {
	rootNode, err := searcher.navigator.GetRootNode()
	if err != nil {
		return fmt.Errorf("failed to get root node: %w", err)
	}

	return searcher.traverseRangeInNode(rootNode, startKey, endKey, visitor, 0)
}

// traverseRangeInNode recursively traverses nodes within a key range
func (searcher *btreeSearcher) traverseRangeInNode(node interfaces.BTreeNodeReader, startKey, endKey []byte, visitor func(key, value []byte) error, depth int) error {
	if depth > maxDescentDepth {
		return fmt.Errorf("descent depth exceeded %d levels, tree is malformed or cyclic", maxDescentDepth)
	}

	if node.IsLeaf() {
		return searcher.visitLeafRange(node, startKey, endKey, visitor)
	}

	return searcher.visitInternalRange(node, startKey, endKey, visitor, depth)
}

// visitLeafRange visits all entries in a leaf node within the key range
func (searcher *btreeSearcher) visitLeafRange(node interfaces.BTreeNodeReader, startKey, endKey []byte, visitor func(key, value []byte) error) error {
	entries, err := btrees.ExtractEntries(node, searcher.btreeInfo)
	if err != nil {
		return fmt.Errorf("failed to extract node entries: %w", err)
	}

	for _, entry := range entries {
		if entry.Value == nil {
			continue
		}
		if searcher.keyComparer(entry.Key, startKey) >= 0 && searcher.keyComparer(entry.Key, endKey) <= 0 {
			if err := visitor(entry.Key, entry.Value); err != nil {
				return err
			}
		}
	}

	return nil
}

// visitInternalRange visits children of an internal node within the key
// range. Each entry i covers the half-open key range [entries[i].Key,
// entries[i+1].Key), or [entries[i].Key, +inf) for the last entry; a child
// is visited whenever that range overlaps [startKey, endKey].
func (searcher *btreeSearcher) visitInternalRange(node interfaces.BTreeNodeReader, startKey, endKey []byte, visitor func(key, value []byte) error, depth int) error {
	entries, err := btrees.ExtractEntries(node, searcher.btreeInfo)
	if err != nil {
		return fmt.Errorf("failed to extract node entries: %w", err)
	}

	for i, entry := range entries {
		if searcher.keyComparer(endKey, entry.Key) < 0 {
			continue
		}
		if i+1 < len(entries) && searcher.keyComparer(startKey, entries[i+1].Key) >= 0 {
			continue
		}

		childNode, err := searcher.navigator.GetChildNode(node, i)
		if err != nil {
			return fmt.Errorf("failed to get child node %d: %w", i, err)
		}

		if err := searcher.traverseRangeInNode(childNode, startKey, endKey, visitor, depth+1); err != nil {
			return err
		}
	}

	return nil
}
