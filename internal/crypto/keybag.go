package crypto

import (
	"bytes"
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/types"
)

// Resolver recovers a volume's encryption key hierarchy from its keybag
// given a user's password, following the same two-stage unwrap Apple's
// own unlock path uses: password -> KEK -> VEK.
type Resolver struct {
	// VolumeKeybag holds a volume keybag's entries (KbTagVolumeUnlockRecords
	// and KbTagVolumeKey among them).
	VolumeKeybag []types.KeybagEntryT
}

// NewResolver builds a Resolver over an already-parsed volume keybag.
func NewResolver(entries []types.KeybagEntryT) *Resolver {
	return &Resolver{VolumeKeybag: entries}
}

// UnwrapVEKWithPassword finds the unlock record belonging to userUUID,
// derives its password key, unwraps the record's KEK, then unwraps the
// volume's VEK with that KEK. It returns the raw volume encryption key,
// ready for NewBlockCipher.
func (r *Resolver) UnwrapVEKWithPassword(userUUID types.UUID, password string) ([]byte, error) {
	unlockEntry := r.findEntry(userUUID, types.KbTagVolumeUnlockRecords)
	if unlockEntry == nil {
		return nil, fmt.Errorf("apfs/crypto: no unlock record for user %x", userUUID)
	}

	kek, err := r.unlockKEK(unlockEntry, password)
	if err != nil {
		return nil, err
	}

	vekEntry := r.findEntry(types.UUID{}, types.KbTagVolumeKey)
	if vekEntry == nil {
		// The volume key entry's UUID is the volume's own UUID, not a
		// wildcard; fall back to scanning by tag alone.
		vekEntry = r.findEntryByTag(types.KbTagVolumeKey)
	}
	if vekEntry == nil {
		return nil, fmt.Errorf("apfs/crypto: keybag has no volume key entry")
	}

	vek, err := UnwrapVEK(vekEntry.KeKeydata, kek)
	if err != nil {
		return nil, err
	}
	return vek, nil
}

// unlockKEK decodes an unlock record and unwraps the KEK it protects.
func (r *Resolver) unlockKEK(entry *types.KeybagEntryT, password string) ([]byte, error) {
	kek, err := ParseKeyEncryptedKey(entry.KeKeydata)
	if err != nil {
		return nil, fmt.Errorf("apfs/crypto: decoding unlock record: %w", err)
	}
	if kek.Salt == nil {
		return nil, fmt.Errorf("apfs/crypto: unlock record has no password salt (not a password-protected entry)")
	}

	passwordKey := DeriveKeyFromPassword(password, kek.Salt, kek.Iterations)
	unwrapped, err := UnwrapKEK(kek.WrappedKey, passwordKey)
	if err != nil {
		return nil, fmt.Errorf("apfs/crypto: wrong password or corrupt unlock record: %w", err)
	}
	return unwrapped, nil
}

func (r *Resolver) findEntry(uuid types.UUID, tag types.KbTag) *types.KeybagEntryT {
	for i := range r.VolumeKeybag {
		e := &r.VolumeKeybag[i]
		if types.KbTag(e.KeTag) == tag && bytes.Equal(e.KeUuid[:], uuid[:]) {
			return e
		}
	}
	return nil
}

func (r *Resolver) findEntryByTag(tag types.KbTag) *types.KeybagEntryT {
	for i := range r.VolumeKeybag {
		e := &r.VolumeKeybag[i]
		if types.KbTag(e.KeTag) == tag {
			return e
		}
	}
	return nil
}
