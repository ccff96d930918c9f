// Package crypto unwraps the key hierarchy an encrypted APFS volume stores
// in its keybags and decrypts the resulting file and metadata blocks.
package crypto

import (
	"crypto/aes"
	"fmt"

	"golang.org/x/crypto/xts"
)

// BlockCipher decrypts blocks encrypted with AES-XTS, the mode Apple File
// System uses for both file content and per-file metadata once a volume
// encryption key (VEK) has been unwrapped.
type BlockCipher struct {
	c *xts.Cipher
}

// NewBlockCipher builds an AES-XTS cipher from a volume encryption key.
// APFS uses AES-128-XTS for both file content and metadata, so vek must
// be 32 bytes: two 128-bit halves, one for the data cipher and one for
// the tweak cipher, per the xts package's key-size-doubling convention.
func NewBlockCipher(vek []byte) (*BlockCipher, error) {
	c, err := xts.NewCipher(aes.NewCipher, vek)
	if err != nil {
		return nil, fmt.Errorf("apfs/crypto: building AES-XTS cipher: %w", err)
	}
	return &BlockCipher{c: c}, nil
}

// DecryptSector decrypts a single AES block-size-aligned sector in place.
// sector is the XTS tweak: for a file extent this is derived from the
// extent's crypto_id and the block's logical offset within the file (see
// Tweak), for filesystem-tree metadata it's the physical block's crypto_id.
func (bc *BlockCipher) DecryptSector(dst, src []byte, sector uint64) {
	bc.c.Decrypt(dst, src, sector)
}

// Tweak computes the AES-XTS sector number for a file extent's block.
// When cryptoID carries FextCryptoIdIsTweak it is already a raw tweak
// value and the logical block offset doesn't enter into it; otherwise the
// tweak is the extent's crypto_id XORed with the block's logical index,
// matching how Apple derives per-block tweaks for file content governed
// by a single per-file key.
func Tweak(cryptoID uint64, logicalBlockIndex uint64, cryptoIDIsTweak bool) uint64 {
	if cryptoIDIsTweak {
		return cryptoID
	}
	return cryptoID ^ logicalBlockIndex
}
