package crypto

import (
	"crypto/aes"
	"encoding/binary"
	"errors"
	"fmt"
)

// defaultIV is the integrity check value RFC 3394 prescribes for key
// wrapping, 0xA6A6A6A6A6A6A6A6.
var defaultIV = [8]byte{0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6, 0xA6}

// UnwrapKey reverses AES key wrapping (RFC 3394) as used throughout APFS's
// key hierarchy: a volume's KEK wraps its VEK, and a user's password- or
// recovery-key-derived key wraps their KEK. wrapped must be a multiple of
// 8 bytes and at least 16 bytes (two 64-bit blocks); the unwrapped key is
// len(wrapped)-8 bytes long.
//
// This is distinct from the similarly-named CBC-based wrapping some APFS
// reimplementations use for their own on-disk structures: the key
// hierarchy itself is always RFC 3394, regardless of host OS.
func UnwrapKey(wrapped, kek []byte) ([]byte, error) {
	if len(wrapped) < 16 || len(wrapped)%8 != 0 {
		return nil, fmt.Errorf("apfs/crypto: wrapped key length %d is not a multiple of 8 bytes >= 16", len(wrapped))
	}

	block, err := aes.NewCipher(kek)
	if err != nil {
		return nil, fmt.Errorf("apfs/crypto: building key-encryption cipher: %w", err)
	}

	n := len(wrapped)/8 - 1
	var a [8]byte
	copy(a[:], wrapped[:8])

	r := make([][8]byte, n)
	for i := 0; i < n; i++ {
		copy(r[i][:], wrapped[8*(i+1):8*(i+2)])
	}

	buf := make([]byte, 16)
	for j := 5; j >= 0; j-- {
		for i := n; i >= 1; i-- {
			t := uint64(n*j + i)
			var tBytes [8]byte
			binary.BigEndian.PutUint64(tBytes[:], t)

			copy(buf[:8], a[:])
			copy(buf[8:], r[i-1][:])
			for k := 0; k < 8; k++ {
				buf[k] ^= tBytes[k]
			}

			block.Decrypt(buf, buf)
			copy(a[:], buf[:8])
			copy(r[i-1][:], buf[8:])
		}
	}

	if a != defaultIV {
		return nil, errors.New("apfs/crypto: key unwrap integrity check failed (wrong unwrapping key)")
	}

	out := make([]byte, 8*n)
	for i := 0; i < n; i++ {
		copy(out[8*i:8*(i+1)], r[i][:])
	}
	return out, nil
}
