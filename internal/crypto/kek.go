package crypto

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordKeySize and SaltSize are the sizes libfsapfs and Apple's own
// implementation both use for the AES-256 key-encrypted-key scheme; APFS
// doesn't record a key size in the keybag, so unwrapping always assumes 32.
const (
	PasswordKeySize = 32
	SaltSize        = 16
)

// DeriveKeyFromPassword runs PBKDF2-HMAC-SHA256 over a user's password the
// same way Apple's unlock path does, turning it into the key that unwraps
// that user's personal KEK entry in a volume's keybag.
func DeriveKeyFromPassword(password string, salt []byte, iterations uint32) []byte {
	return pbkdf2.Key([]byte(password), salt, int(iterations), PasswordKeySize, sha256.New)
}

// UnwrapKEK unwraps a volume unlock record's wrapped key-encrypted-key
// (a 40-byte RFC 3394 key wrap of a 32-byte KEK) using a key derived from
// the corresponding user's password or personal recovery key.
func UnwrapKEK(wrappedKEK []byte, passwordKey []byte) ([]byte, error) {
	if len(wrappedKEK) != 40 {
		return nil, fmt.Errorf("apfs/crypto: wrapped KEK must be 40 bytes, got %d", len(wrappedKEK))
	}
	kek, err := UnwrapKey(wrappedKEK, passwordKey)
	if err != nil {
		return nil, fmt.Errorf("apfs/crypto: unwrapping KEK: %w", err)
	}
	return kek, nil
}

// UnwrapVEK unwraps a volume's wrapped volume encryption key (also a
// 40-byte RFC 3394 wrap, found under the KbTagVolumeKey keybag entry)
// using the KEK recovered from UnwrapKEK.
func UnwrapVEK(wrappedVEK []byte, kek []byte) ([]byte, error) {
	if len(wrappedVEK) != 40 {
		return nil, fmt.Errorf("apfs/crypto: wrapped VEK must be 40 bytes, got %d", len(wrappedVEK))
	}
	vek, err := UnwrapKey(wrappedVEK, kek)
	if err != nil {
		return nil, fmt.Errorf("apfs/crypto: unwrapping VEK: %w", err)
	}
	return vek, nil
}
