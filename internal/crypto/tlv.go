package crypto

import (
	"encoding/binary"
	"fmt"

	"github.com/deploymenttheory/go-apfs/internal/types"
)

// tlvEntry is one tag-length-value record from the packed TLV encoding
// Apple uses inside a keybag entry's key data: a one-byte tag, a length
// (one byte if under 0x80, or 0x81 + one length byte, or 0x82 + a
// little-endian two-byte length for longer values), followed by the
// value itself.
type tlvEntry struct {
	tag   uint8
	value []byte
}

// parseTLV walks a packed TLV blob and returns its entries in order. It
// stops at the first (tag=0, length=0) terminator or at the end of data,
// whichever comes first.
func parseTLV(data []byte) ([]tlvEntry, error) {
	var entries []tlvEntry
	offset := 0

	for offset < len(data) {
		if offset+2 > len(data) {
			return nil, fmt.Errorf("apfs/crypto: truncated TLV header at offset %d", offset)
		}
		tag := data[offset]
		lenByte := data[offset+1]
		offset += 2

		var length int
		switch {
		case lenByte&0x80 == 0:
			length = int(lenByte)
		case lenByte == 0x81:
			if offset+1 > len(data) {
				return nil, fmt.Errorf("apfs/crypto: truncated TLV extended length at offset %d", offset)
			}
			length = int(data[offset])
			offset++
		case lenByte == 0x82:
			if offset+2 > len(data) {
				return nil, fmt.Errorf("apfs/crypto: truncated TLV extended length at offset %d", offset)
			}
			length = int(binary.LittleEndian.Uint16(data[offset : offset+2]))
			offset += 2
		default:
			return nil, fmt.Errorf("apfs/crypto: unsupported TLV length encoding 0x%02x", lenByte)
		}

		if tag == 0 && length == 0 {
			break
		}
		if offset+length > len(data) {
			return nil, fmt.Errorf("apfs/crypto: TLV value at offset %d (len %d) exceeds buffer", offset, length)
		}

		entries = append(entries, tlvEntry{tag: tag, value: data[offset : offset+length]})
		offset += length
	}

	return entries, nil
}

// KeyEncryptedKey is the decoded form of a KbTagVolumeUnlockRecords (or
// KbTagVolumeKey) keybag entry's key data: a wrapped key plus the
// parameters needed to derive the key that unwraps it.
type KeyEncryptedKey struct {
	Identifier       types.UUID
	EncryptionMethod uint32
	WrappedKey       []byte // 40 bytes for AES-256, 24 for AES-128
	Iterations       uint32
	Salt             []byte // 16 bytes, present only when derived from a password
}

// ParseKeyEncryptedKey decodes a keybag entry's TLV-packed key data into
// its wrapped key and key-derivation parameters. The outer TLV carries a
// single tag-0x30 object wrapping an inner tag-0xa3 object; the inner
// object's own entries describe the wrapped key itself.
func ParseKeyEncryptedKey(data []byte) (*KeyEncryptedKey, error) {
	outer, err := parseTLV(data)
	if err != nil {
		return nil, fmt.Errorf("apfs/crypto: parsing outer key-encrypted-key TLV: %w", err)
	}

	var wrappedKEKObject []byte
	for _, e := range outer {
		if e.tag == 0xa3 {
			wrappedKEKObject = e.value
		}
	}
	if wrappedKEKObject == nil {
		return nil, fmt.Errorf("apfs/crypto: key-encrypted-key blob has no wrapped KEK object")
	}

	inner, err := parseTLV(wrappedKEKObject)
	if err != nil {
		return nil, fmt.Errorf("apfs/crypto: parsing wrapped KEK object TLV: %w", err)
	}

	kek := &KeyEncryptedKey{}
	for _, e := range inner {
		switch e.tag {
		case 0x81:
			if len(e.value) != 16 {
				return nil, fmt.Errorf("apfs/crypto: identifier field must be 16 bytes, got %d", len(e.value))
			}
			copy(kek.Identifier[:], e.value)
		case 0x82:
			if len(e.value) != 4 {
				return nil, fmt.Errorf("apfs/crypto: encryption method field must be 4 bytes, got %d", len(e.value))
			}
			kek.EncryptionMethod = binary.LittleEndian.Uint32(e.value)
		case 0x83:
			kek.WrappedKey = append([]byte(nil), e.value...)
		case 0x84:
			var v uint32
			for _, b := range e.value {
				v = v<<8 | uint32(b)
			}
			kek.Iterations = v
		case 0x85:
			if len(e.value) != 16 {
				return nil, fmt.Errorf("apfs/crypto: salt field must be 16 bytes, got %d", len(e.value))
			}
			kek.Salt = append([]byte(nil), e.value...)
		}
	}

	if kek.WrappedKey == nil {
		return nil, fmt.Errorf("apfs/crypto: key-encrypted-key blob has no wrapped key")
	}
	return kek, nil
}
