package services

import (
	"encoding/binary"
	"fmt"

	btreemgr "github.com/deploymenttheory/go-apfs/internal/managers/btrees"
	btreeparse "github.com/deploymenttheory/go-apfs/internal/parsers/btrees"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// BTreeObjectResolver resolves virtual object IDs using B-tree traversal
type BTreeObjectResolver struct {
	container *ContainerReader
}

// NewBTreeObjectResolver creates a new B-tree based object resolver
func NewBTreeObjectResolver(container *ContainerReader) *BTreeObjectResolver {
	return &BTreeObjectResolver{
		container: container,
	}
}

// containerBlockReader adapts *ContainerReader's uint64-block-number API
// to interfaces.BlockDeviceReader's types.Paddr-addressed one, so the
// container's block cache can feed the B-tree navigator directly.
type containerBlockReader struct {
	cr *ContainerReader
}

func (c containerBlockReader) ReadBlock(address types.Paddr) ([]byte, error) {
	return c.cr.ReadBlock(uint64(address))
}

func (c containerBlockReader) ReadBlockRange(start types.Paddr, count uint32) ([]byte, error) {
	return c.cr.ReadBlocks(uint64(start), uint64(count))
}

func (c containerBlockReader) ReadBytes(address types.Paddr, offset uint32, length uint32) ([]byte, error) {
	block, err := c.ReadBlock(address)
	if err != nil {
		return nil, err
	}
	if uint64(offset)+uint64(length) > uint64(len(block)) {
		return nil, fmt.Errorf("read of %d bytes at offset %d exceeds block size %d", length, offset, len(block))
	}
	return block[offset : offset+length], nil
}

func (c containerBlockReader) BlockSize() uint32 { return c.cr.GetBlockSize() }
func (c containerBlockReader) TotalSize() uint64 { return c.cr.GetContainerSize() }
func (c containerBlockReader) TotalBlocks() uint64 {
	bs := c.cr.GetBlockSize()
	if bs == 0 {
		return 0
	}
	return c.cr.GetContainerSize() / uint64(bs)
}
func (c containerBlockReader) IsValidAddress(address types.Paddr) bool {
	return address >= 0 && uint64(address) < c.TotalBlocks()
}
func (c containerBlockReader) CanReadRange(start types.Paddr, count uint32) bool {
	if start < 0 || count == 0 {
		return false
	}
	return uint64(start)+uint64(count) <= c.TotalBlocks()
}

// ResolveVirtualObject resolves a virtual object ID to its physical address using B-tree traversal
func (btor *BTreeObjectResolver) ResolveVirtualObject(virtualOID types.OidT, transactionID types.XidT) (types.Paddr, error) {
	if btor.container == nil {
		return 0, fmt.Errorf("container reader is nil")
	}

	containerSB := btor.container.GetSuperblock()
	if containerSB == nil {
		return 0, fmt.Errorf("container superblock is nil")
	}

	// Get the container's object map OID (this is a physical OID)
	omapOID := containerSB.NxOmapOid
	if omapOID == 0 {
		return 0, fmt.Errorf("container object map OID is zero")
	}

	// Read and parse the object map
	omapData, err := btor.container.ReadBlock(uint64(omapOID))
	if err != nil {
		return 0, fmt.Errorf("failed to read object map at block %d: %w", omapOID, err)
	}

	omap, err := btor.parseObjectMapHeader(omapData, binary.LittleEndian)
	if err != nil {
		return 0, fmt.Errorf("failed to parse object map header: %w", err)
	}

	// Check if this is a manually managed object map (no B-tree)
	if omap.OmTreeOid == 0 {
		return btor.searchManuallyManagedObjectMap(omapData, virtualOID, transactionID)
	}

	// This object map uses a B-tree - traverse it to find the mapping
	return btor.searchBTreeObjectMap(omap.OmTreeOid, virtualOID, transactionID)
}

// parseObjectMapHeader parses the object map header from raw data
func (btor *BTreeObjectResolver) parseObjectMapHeader(data []byte, endian binary.ByteOrder) (*types.OmapPhysT, error) {
	if len(data) < 72 {
		return nil, fmt.Errorf("insufficient data for object map header")
	}

	omap := &types.OmapPhysT{}

	// Parse object header (first 32 bytes)
	copy(omap.OmO.OChecksum[:], data[0:8])
	omap.OmO.OOid = types.OidT(endian.Uint64(data[8:16]))
	omap.OmO.OXid = types.XidT(endian.Uint64(data[16:24]))
	omap.OmO.OType = endian.Uint32(data[24:28])
	omap.OmO.OSubtype = endian.Uint32(data[28:32])

	// Parse object map specific fields
	offset := 32
	omap.OmFlags = endian.Uint32(data[offset : offset+4])
	offset += 4
	omap.OmSnapCount = endian.Uint32(data[offset : offset+4])
	offset += 4
	omap.OmTreeType = endian.Uint32(data[offset : offset+4])
	offset += 4
	omap.OmSnapshotTreeType = endian.Uint32(data[offset : offset+4])
	offset += 4
	omap.OmTreeOid = types.OidT(endian.Uint64(data[offset : offset+8]))
	offset += 8
	omap.OmSnapshotTreeOid = types.OidT(endian.Uint64(data[offset : offset+8]))
	offset += 8
	omap.OmMostRecentSnap = types.XidT(endian.Uint64(data[offset : offset+8]))
	offset += 8
	omap.OmPendingRevertMin = types.XidT(endian.Uint64(data[offset : offset+8]))
	offset += 8
	omap.OmPendingRevertMax = types.XidT(endian.Uint64(data[offset : offset+8]))

	return omap, nil
}

// searchManuallyManagedObjectMap searches for object mappings in a manually
// managed object map. Per the object map's "greatest xid no larger than
// the query transaction id" rule, a matching oid can legitimately appear
// more than once (once per snapshot that touched it); the entry actually
// visible at transactionID is the one with the greatest xid that still
// doesn't exceed it, so every candidate must be checked rather than
// returning on the first match.
func (btor *BTreeObjectResolver) searchManuallyManagedObjectMap(omapData []byte, virtualOID types.OidT, transactionID types.XidT) (types.Paddr, error) {
	entryOffset := 72
	entrySize := 32 // OmapKeyT (16 bytes) + OmapValT (16 bytes) = 32 bytes total

	found := false
	var bestXID types.XidT
	var bestPaddr types.Paddr

	for entryOffset+entrySize <= len(omapData) {
		entryOID := types.OidT(binary.LittleEndian.Uint64(omapData[entryOffset : entryOffset+8]))
		entryXID := types.XidT(binary.LittleEndian.Uint64(omapData[entryOffset+8 : entryOffset+16]))

		// Safety check - if we hit all zeros, we've reached the end
		if entryOID == 0 && entryXID == 0 {
			break
		}

		if entryOID == virtualOID && entryXID <= transactionID && (!found || entryXID > bestXID) {
			found = true
			bestXID = entryXID
			bestPaddr = types.Paddr(binary.LittleEndian.Uint64(omapData[entryOffset+24 : entryOffset+32]))
		}

		entryOffset += entrySize
	}

	if !found {
		return 0, fmt.Errorf("virtual object %d not found in manually managed object map at or before transaction %d", virtualOID, transactionID)
	}
	return bestPaddr, nil
}

// searchBTreeObjectMap searches for object mappings in a B-tree based
// object map using the real navigator/searcher engine, instead of a
// second, divergent descent implementation. Object map B-trees are always
// physical (their nodes are addressed directly by oid, never through
// another object map), so the navigator's default PhysicalSubNodeResolver
// applies.
func (btor *BTreeObjectResolver) searchBTreeObjectMap(treeOID types.OidT, virtualOID types.OidT, transactionID types.XidT) (types.Paddr, error) {
	rootData, err := btor.container.ReadBlock(uint64(treeOID))
	if err != nil {
		return 0, fmt.Errorf("failed to read object map B-tree root at block %d: %w", treeOID, err)
	}

	btreeInfo, err := btreeparse.NewBTreeInfoReader(rootData)
	if err != nil {
		return 0, fmt.Errorf("failed to read object map B-tree info: %w", err)
	}

	blockReader := containerBlockReader{cr: btor.container}
	navigator := btreemgr.NewBTreeNavigator(blockReader, treeOID, btreeInfo)
	searcher := btreemgr.NewBTreeSearcher(navigator, btreeInfo, btreemgr.OmapKeyComparer)

	// omap_key_t orders by (oid, xid); every entry for virtualOID with an
	// xid in [0, transactionID] sorts contiguously, and the last one in
	// that range carries the greatest matching xid.
	startKey := makeOmapKey(virtualOID, 0)
	endKey := makeOmapKey(virtualOID, transactionID)

	pairs, err := searcher.FindRange(startKey, endKey)
	if err != nil {
		return 0, fmt.Errorf("failed to search object map B-tree: %w", err)
	}
	if len(pairs) == 0 {
		return 0, fmt.Errorf("virtual object %d not found in object map B-tree at or before transaction %d", virtualOID, transactionID)
	}

	value := pairs[len(pairs)-1].Value
	if len(value) < 16 {
		return 0, fmt.Errorf("object map value too small: %d bytes", len(value))
	}
	return types.Paddr(binary.LittleEndian.Uint64(value[8:16])), nil
}

// makeOmapKey builds the 16-byte omap_key_t (oid_t, xid_t) on-disk key.
func makeOmapKey(oid types.OidT, xid types.XidT) []byte {
	key := make([]byte, 16)
	binary.LittleEndian.PutUint64(key[0:8], uint64(oid))
	binary.LittleEndian.PutUint64(key[8:16], uint64(xid))
	return key
}
