package disk

import (
	"fmt"
	"os"
)

// ImageDevice provides access to a raw APFS container image: a file that
// starts directly at the container superblock, with no enclosing DMG
// wrapper or GPT partition table to skip over. This is the common form a
// `dd`-style container dump or a losetup-backed image file takes.
type ImageDevice struct {
	file *os.File
	size int64
}

// OpenImage opens path as a raw APFS container image.
func OpenImage(path string) (*ImageDevice, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("apfs/disk: opening image file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("apfs/disk: statting image file: %w", err)
	}

	return &ImageDevice{file: file, size: stat.Size()}, nil
}

// ReadAt implements io.ReaderAt.
func (img *ImageDevice) ReadAt(p []byte, off int64) (int, error) {
	return img.file.ReadAt(p, off)
}

// Size returns the size of the image file in bytes.
func (img *ImageDevice) Size() int64 {
	return img.size
}

// Close closes the underlying file.
func (img *ImageDevice) Close() error {
	if img.file != nil {
		return img.file.Close()
	}
	return nil
}

// BlockSize returns the block size APFS containers default to; callers
// that have already parsed the container superblock should prefer its
// NxBlockSize field, since a container is free to use a different size.
func (img *ImageDevice) BlockSize() uint32 {
	return 4096
}

// NewBlockDeviceReaderForImage wraps img as an interfaces.BlockDeviceReader,
// the same way NewBlockDeviceReader does for a DMGDevice.
func NewBlockDeviceReaderForImage(img *ImageDevice, blockSize uint32) *ReaderAtDevice {
	return NewReaderAtDevice(img, uint64(img.Size()), blockSize)
}
