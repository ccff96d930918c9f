package services

import (
	"github.com/deploymenttheory/go-apfs/internal/crypto"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// CryptoService provides cryptographic utilities for APFS: password-based
// key derivation and, once a user's password is known, recovery of a
// volume's encryption key hierarchy down to the VEK used to decrypt file
// content and metadata.
type CryptoService struct{}

// NewCryptoService creates a new crypto service.
func NewCryptoService() *CryptoService {
	return &CryptoService{}
}

// Pbkdf2 derives a key from a password using PBKDF2 with SHA-256, matching
// the key derivation Apple's own unlock path uses for APFS keybag entries.
func (cs *CryptoService) Pbkdf2(password string, salt []byte, iterations uint32) []byte {
	return crypto.DeriveKeyFromPassword(password, salt, iterations)
}

// ResolveVolumeEncryptionKey unwraps a volume's VEK given its keybag
// entries, the UUID of an enrolled user, and that user's password.
func (cs *CryptoService) ResolveVolumeEncryptionKey(keybagEntries []types.KeybagEntryT, userUUID types.UUID, password string) ([]byte, error) {
	resolver := crypto.NewResolver(keybagEntries)
	return resolver.UnwrapVEKWithPassword(userUUID, password)
}
