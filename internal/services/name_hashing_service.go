package services

import (
	"hash/crc32"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// castagnoliTable is the CRC-32C (Castagnoli) polynomial table APFS uses
// for directory entry name hashing. The stdlib ships an SSE4.2-accelerated
// implementation of this exact polynomial on amd64, so there's no reason to
// carry a bespoke table.
var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// NameHashingService computes the hash APFS stores in a directory record's
// hashed key (j_drec_hashed_key_t.name_len_and_hash) so that directory
// lookups on case-insensitive and normalization-insensitive volumes can be
// keyed by hash instead of a full name comparison.
type NameHashingService struct {
	caseFolder cases.Caser
}

// NewNameHashingService creates a new name hashing service.
func NewNameHashingService() *NameHashingService {
	return &NameHashingService{
		caseFolder: cases.Fold(),
	}
}

// ComputeNameHash computes the packed name_len_and_hash value for a
// directory entry name, folding case and applying Unicode canonical
// decomposition (NFD) first when the volume is case-insensitive or
// normalization-insensitive, matching APFS's own three comparison modes:
//
//   - case-sensitive: hash the UTF-8 bytes as given.
//   - case-insensitive: case-fold, then hash.
//   - case-insensitive and normalization-insensitive: NFD-normalize, then
//     case-fold, then hash.
//
// The on-disk field packs a 22-bit hash in bits 10-31 and the name's byte
// length (including the trailing NUL APFS stores) in bits 0-9, so names
// longer than 1023 bytes cannot be represented and the length is clamped.
func (nhs *NameHashingService) ComputeNameHash(name string, caseInsensitive, normalizationInsensitive bool) uint32 {
	hashInput := name
	if normalizationInsensitive {
		hashInput = norm.NFD.String(hashInput)
	}
	if caseInsensitive {
		hashInput = nhs.caseFolder.String(hashInput)
	}

	crc := crc32.Checksum([]byte(hashInput), castagnoliTable)
	hash := crc & 0x3FFFFF

	nameLen := len(name) + 1 // includes the stored name's trailing NUL
	if nameLen > 0x3FF {
		nameLen = 0x3FF
	}

	return (hash << 10) | uint32(nameLen)
}

// NamesMatch reports whether two directory entry names are equal under the
// volume's name-comparison mode, used as the exact-match check after a hash
// lookup narrows candidates down (hashes can collide).
func (nhs *NameHashingService) NamesMatch(a, b string, caseInsensitive, normalizationInsensitive bool) bool {
	if normalizationInsensitive {
		a = norm.NFD.String(a)
		b = norm.NFD.String(b)
	}
	if caseInsensitive {
		a = nhs.caseFolder.String(a)
		b = nhs.caseFolder.String(b)
	}
	return a == b
}
