package encryption

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/interfaces"
	"github.com/deploymenttheory/go-apfs/internal/types"
)

// keybagReader implements the KeybagReader interface for a standalone kb_locker_t
type keybagReader struct {
	keybag *types.KbLockerT
	endian binary.ByteOrder
}

// keybagEntryReader implements the KeybagEntryReader interface
type keybagEntryReader struct {
	entry  *types.KeybagEntryT
	endian binary.ByteOrder
}

var _ interfaces.KeybagReader = (*keybagReader)(nil)
var _ interfaces.KeybagEntryReader = (*keybagEntryReader)(nil)

// NewKeybagReader creates a new KeybagReader from raw kb_locker_t bytes (the
// keybag body, without the surrounding obj_phys_t header that wraps it in a
// container or volume's media keybag object).
func NewKeybagReader(data []byte, endian binary.ByteOrder) (interfaces.KeybagReader, error) {
	if endian == nil {
		endian = binary.LittleEndian
	}

	keybag, err := parseKeybag(data, endian)
	if err != nil {
		return nil, fmt.Errorf("failed to parse keybag: %w", err)
	}

	return &keybagReader{
		keybag: keybag,
		endian: endian,
	}, nil
}

// parseKeybag parses raw bytes into a KbLockerT structure.
func parseKeybag(data []byte, endian binary.ByteOrder) (*types.KbLockerT, error) {
	// version(2) + nkeys(2) + nbytes(4) + padding(8) = 16 bytes
	if len(data) < 16 {
		return nil, fmt.Errorf("insufficient data for keybag: need at least 16 bytes, got %d", len(data))
	}

	keybag := &types.KbLockerT{}
	offset := 0

	keybag.KlVersion = endian.Uint16(data[offset : offset+2])
	offset += 2
	keybag.KlNkeys = endian.Uint16(data[offset : offset+2])
	offset += 2
	keybag.KlNbytes = endian.Uint32(data[offset : offset+4])
	offset += 4
	copy(keybag.Padding[:], data[offset:offset+8])
	offset += 8

	if keybag.KlVersion < types.ApfsKeybagVersion {
		return nil, fmt.Errorf("unsupported keybag version: %d (minimum supported: %d)",
			keybag.KlVersion, types.ApfsKeybagVersion)
	}

	if len(data) >= offset+int(keybag.KlNbytes) {
		entries, err := parseKeybagEntries(data[offset:], keybag.KlNkeys, endian)
		if err != nil {
			return nil, fmt.Errorf("failed to parse keybag entries: %w", err)
		}
		keybag.KlEntries = entries
	}

	return keybag, nil
}

// parseKeybagEntries parses keybag entries from raw data.
func parseKeybagEntries(data []byte, count uint16, endian binary.ByteOrder) ([]types.KeybagEntryT, error) {
	entries := make([]types.KeybagEntryT, 0, count)
	offset := 0

	for i := uint16(0); i < count; i++ {
		if offset+24 > len(data) {
			return nil, fmt.Errorf("insufficient data for keybag entry %d", i)
		}

		entry := types.KeybagEntryT{}
		copy(entry.KeUuid[:], data[offset:offset+16])
		offset += 16
		entry.KeTag = endian.Uint16(data[offset : offset+2])
		offset += 2
		entry.KeKeylen = endian.Uint16(data[offset : offset+2])
		offset += 2
		copy(entry.Padding[:], data[offset:offset+4])
		offset += 4

		if entry.KeKeylen > types.ApfsVolKeybagEntryMaxSize {
			return nil, fmt.Errorf("keybag entry %d key length %d exceeds maximum %d",
				i, entry.KeKeylen, types.ApfsVolKeybagEntryMaxSize)
		}

		if offset+int(entry.KeKeylen) <= len(data) {
			entry.KeKeydata = make([]byte, entry.KeKeylen)
			copy(entry.KeKeydata, data[offset:offset+int(entry.KeKeylen)])
			offset += int(entry.KeKeylen)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Version returns the keybag version.
func (kr *keybagReader) Version() uint16 {
	return kr.keybag.KlVersion
}

// EntryCount returns the number of entries in the keybag.
func (kr *keybagReader) EntryCount() uint16 {
	return kr.keybag.KlNkeys
}

// TotalDataSize returns the total size, in bytes, of the keybag's entries.
func (kr *keybagReader) TotalDataSize() uint32 {
	return kr.keybag.KlNbytes
}

// ListEntries returns all keybag entries.
func (kr *keybagReader) ListEntries() []interfaces.KeybagEntryReader {
	entries := make([]interfaces.KeybagEntryReader, len(kr.keybag.KlEntries))
	for i, entry := range kr.keybag.KlEntries {
		entryCopy := entry
		entries[i] = &keybagEntryReader{
			entry:  &entryCopy,
			endian: kr.endian,
		}
	}
	return entries
}

// IsValid checks if the keybag structure is internally consistent.
func (kr *keybagReader) IsValid() bool {
	if kr.keybag.KlVersion < types.ApfsKeybagVersion {
		return false
	}

	if len(kr.keybag.KlEntries) != int(kr.keybag.KlNkeys) {
		return false
	}

	for _, entry := range kr.keybag.KlEntries {
		if entry.KeKeylen > types.ApfsVolKeybagEntryMaxSize {
			return false
		}
		if len(entry.KeKeydata) != int(entry.KeKeylen) {
			return false
		}
	}

	return true
}

// UUID returns the UUID associated with the entry.
func (ker *keybagEntryReader) UUID() types.UUID {
	return ker.entry.KeUuid
}

// Tag returns the keybag entry tag.
func (ker *keybagEntryReader) Tag() types.KbTag {
	return types.KbTag(ker.entry.KeTag)
}

// TagDescription returns a human-readable description of the tag.
func (ker *keybagEntryReader) TagDescription() string {
	switch types.KbTag(ker.entry.KeTag) {
	case types.KbTagUnknown:
		return "Unknown"
	case types.KbTagReserved1:
		return "Reserved"
	case types.KbTagVolumeKey:
		return "Volume Key"
	case types.KbTagVolumeUnlockRecords:
		return "Volume Unlock Records"
	case types.KbTagVolumePassphraseHint:
		return "Volume Passphrase Hint"
	case types.KbTagWrappingMKey:
		return "Wrapping Media Key"
	case types.KbTagVolumeMKey:
		return "Volume Media Key"
	case types.KbTagReservedF8:
		return "Reserved"
	default:
		return fmt.Sprintf("Unknown tag (%d)", ker.entry.KeTag)
	}
}

// KeyLength returns the length of the entry's key data.
func (ker *keybagEntryReader) KeyLength() uint16 {
	return ker.entry.KeKeylen
}

// KeyData returns the raw key data.
func (ker *keybagEntryReader) KeyData() []byte {
	return ker.entry.KeKeydata
}

// IsPersonalRecoveryKey checks if this entry contains a personal recovery key.
func (ker *keybagEntryReader) IsPersonalRecoveryKey() bool {
	return ker.entry.KeUuid == types.ApfsFvPersonalRecoveryKeyUuid
}

// IsInstitutionalRecoveryKey checks if this entry contains an institutional recovery key.
func (ker *keybagEntryReader) IsInstitutionalRecoveryKey() bool {
	return ker.entry.KeUuid == types.ApfsFvInstitutionalRecoveryKeyUuid
}

// IsInstitutionalUser checks if this entry is for an institutional user.
func (ker *keybagEntryReader) IsInstitutionalUser() bool {
	return ker.entry.KeUuid == types.ApfsFvInstitutionalUserUuid
}

// IsVolumeKey checks if this entry contains a volume encryption key.
func (ker *keybagEntryReader) IsVolumeKey() bool {
	tag := types.KbTag(ker.entry.KeTag)
	return tag == types.KbTagVolumeKey || tag == types.KbTagVolumeMKey
}

// IsUnlockRecord checks if this entry contains volume unlock records.
func (ker *keybagEntryReader) IsUnlockRecord() bool {
	return types.KbTag(ker.entry.KeTag) == types.KbTagVolumeUnlockRecords
}
