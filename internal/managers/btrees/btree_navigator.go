package btrees

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// SubNodeResolver turns the oid_t stored in a nonleaf entry into the
// physical block address of the child node it names. Physical trees (the
// checkpoint descriptor area's own structures) use the oid as a literal
// block address; virtual trees (the file-system B-tree, snapshot metadata
// tree) must resolve it through the volume's object map at the tree's
// query transaction id first. The default resolver treats the oid as a
// literal physical address, which is only correct for a tree whose nodes
// use BTREE_PHYSICAL linkage.
type SubNodeResolver func(oid types.OidT) (types.Paddr, error)

// PhysicalSubNodeResolver is the default SubNodeResolver: it treats a child
// oid as a literal physical block address.
func PhysicalSubNodeResolver(oid types.OidT) (types.Paddr, error) {
	return types.Paddr(oid), nil
}

// maxDescentDepth bounds how many levels a navigator will follow before
// concluding the tree is malformed or cyclic, rather than looping forever
// on corrupt or adversarial on-disk data.
const maxDescentDepth = 16

// btreeNavigator implements the BTreeNavigator interface
type btreeNavigator struct {
	blockReader interfaces.BlockDeviceReader
	rootOID     types.OidT
	btreeInfo   interfaces.BTreeInfoReader
	resolve     SubNodeResolver
	nodeCache   map[types.OidT]interfaces.BTreeNodeReader
}

// NewBTreeNavigator creates a new BTreeNavigator implementation that treats
// child oids as literal physical block addresses (suitable for physical
// trees). Use NewBTreeNavigatorWithResolver for virtual trees, whose child
// oids must be resolved through an object map.
func NewBTreeNavigator(blockReader interfaces.BlockDeviceReader, rootOID types.OidT, btreeInfo interfaces.BTreeInfoReader) interfaces.BTreeNavigator {
	return NewBTreeNavigatorWithResolver(blockReader, rootOID, btreeInfo, PhysicalSubNodeResolver)
}

// NewBTreeNavigatorWithResolver creates a BTreeNavigator that resolves
// child node oids through the supplied SubNodeResolver before reading them
// off the block device.
func NewBTreeNavigatorWithResolver(blockReader interfaces.BlockDeviceReader, rootOID types.OidT, btreeInfo interfaces.BTreeInfoReader, resolve SubNodeResolver) interfaces.BTreeNavigator {
	if resolve == nil {
		resolve = PhysicalSubNodeResolver
	}
	return &btreeNavigator{
		blockReader: blockReader,
		rootOID:     rootOID,
		btreeInfo:   btreeInfo,
		resolve:     resolve,
		nodeCache:   make(map[types.OidT]interfaces.BTreeNodeReader),
	}
}

// GetRootNode returns the root node of the B-tree
func (nav *btreeNavigator) GetRootNode() (interfaces.BTreeNodeReader, error) {
	return nav.GetNodeByObjectID(nav.rootOID)
}

// GetChildNode returns a child node of the given parent node at the specified index
func (nav *btreeNavigator) GetChildNode(parent interfaces.BTreeNodeReader, index int) (interfaces.BTreeNodeReader, error) {
	if parent.IsLeaf() {
		return nil, fmt.Errorf("cannot get child of leaf node")
	}

	childOID, err := btrees.ChildOID(parent, nav.btreeInfo, index)
	if err != nil {
		return nil, fmt.Errorf("failed to extract child OID: %w", err)
	}

	return nav.GetNodeByObjectID(childOID)
}

// GetNodeByObjectID returns a node with the specified object identifier,
// resolving it to a physical block address via the navigator's
// SubNodeResolver first.
func (nav *btreeNavigator) GetNodeByObjectID(objectID types.OidT) (interfaces.BTreeNodeReader, error) {
	if node, exists := nav.nodeCache[objectID]; exists {
		return node, nil
	}

	blockAddr, err := nav.resolve(objectID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve oid %d to a physical address: %w", objectID, err)
	}

	blockData, err := nav.blockReader.ReadBlock(blockAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to read block at address %d: %w", blockAddr, err)
	}

	node, err := btrees.NewBTreeNodeReader(blockData, nav.getEndianness())
	if err != nil {
		return nil, fmt.Errorf("failed to create node reader: %w", err)
	}

	nav.nodeCache[objectID] = node

	return node, nil
}

// GetHeight returns the height of the B-tree
func (nav *btreeNavigator) GetHeight() (uint16, error) {
	rootNode, err := nav.GetRootNode()
	if err != nil {
		return 0, fmt.Errorf("failed to get root node: %w", err)
	}

	// Height is the level of the root node plus 1
	return rootNode.Level() + 1, nil
}

// getEndianness returns the byte order for this platform
func (nav *btreeNavigator) getEndianness() binary.ByteOrder {
	// APFS uses little-endian on all supported platforms
	return binary.LittleEndian
}

// ClearCache clears the node cache
func (nav *btreeNavigator) ClearCache() {
	nav.nodeCache = make(map[types.OidT]interfaces.BTreeNodeReader)
}

// GetCacheSize returns the number of cached nodes
func (nav *btreeNavigator) GetCacheSize() int {
	return len(nav.nodeCache)
}
