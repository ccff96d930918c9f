package disk

import (
	"fmt"
	"io"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// ReaderAtDevice adapts any io.ReaderAt with a known size and block size
// into an interfaces.BlockDeviceReader, so the B-tree navigator and
// container/volume managers can read directly off a DMGDevice or a raw
// image without caring which one backs the bytes.
type ReaderAtDevice struct {
	r         io.ReaderAt
	totalSize uint64
	blockSize uint32
}

// NewReaderAtDevice wraps r, treating it as totalSize bytes made up of
// blockSize-byte blocks.
func NewReaderAtDevice(r io.ReaderAt, totalSize uint64, blockSize uint32) *ReaderAtDevice {
	return &ReaderAtDevice{r: r, totalSize: totalSize, blockSize: blockSize}
}

// NewBlockDeviceReader wraps a DMGDevice, using the container's own block
// size as reported by callers once the container superblock has been
// parsed (block size isn't known from the DMG alone, since it's an APFS
// property rather than a disk-image property).
func NewBlockDeviceReader(dmg *DMGDevice, blockSize uint32) *ReaderAtDevice {
	return NewReaderAtDevice(dmg, uint64(dmg.Size()), blockSize)
}

func (d *ReaderAtDevice) BlockSize() uint32 {
	return d.blockSize
}

func (d *ReaderAtDevice) TotalSize() uint64 {
	return d.totalSize
}

func (d *ReaderAtDevice) TotalBlocks() uint64 {
	if d.blockSize == 0 {
		return 0
	}
	return d.totalSize / uint64(d.blockSize)
}

func (d *ReaderAtDevice) IsValidAddress(address types.Paddr) bool {
	if address < 0 {
		return false
	}
	return uint64(address) < d.TotalBlocks()
}

func (d *ReaderAtDevice) CanReadRange(start types.Paddr, count uint32) bool {
	if start < 0 || count == 0 {
		return false
	}
	end := uint64(start) + uint64(count)
	return end <= d.TotalBlocks()
}

// ReadBlock reads the single block at address.
func (d *ReaderAtDevice) ReadBlock(address types.Paddr) ([]byte, error) {
	return d.ReadBlockRange(address, 1)
}

// ReadBlockRange reads count consecutive blocks starting at start.
func (d *ReaderAtDevice) ReadBlockRange(start types.Paddr, count uint32) ([]byte, error) {
	if !d.CanReadRange(start, count) {
		return nil, fmt.Errorf("apfs/disk: block range [%d,%d) out of bounds (device has %d blocks)", start, uint64(start)+uint64(count), d.TotalBlocks())
	}

	buf := make([]byte, uint64(count)*uint64(d.blockSize))
	off := int64(start) * int64(d.blockSize)
	if _, err := d.r.ReadAt(buf, off); err != nil {
		return nil, fmt.Errorf("apfs/disk: reading blocks [%d,%d): %w", start, uint64(start)+uint64(count), err)
	}
	return buf, nil
}

// ReadBytes reads length bytes starting at offset within the block at address.
func (d *ReaderAtDevice) ReadBytes(address types.Paddr, offset uint32, length uint32) ([]byte, error) {
	if offset+length > d.blockSize {
		return nil, fmt.Errorf("apfs/disk: read of %d bytes at offset %d exceeds block size %d", length, offset, d.blockSize)
	}
	block, err := d.ReadBlock(address)
	if err != nil {
		return nil, err
	}
	return block[offset : offset+length], nil
}

var _ interfaces.BlockDeviceReader = (*ReaderAtDevice)(nil)
