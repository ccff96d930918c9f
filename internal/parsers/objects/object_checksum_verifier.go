package objects

import (
	"encoding/binary"

	"github.com/deploymenttheory/go-apfs/internal/types"
)

// ChecksumInspector implements ObjectChecksumVerifier for ObjPhysT
type ChecksumInspector struct {
	Obj     *types.ObjPhysT
	Payload []byte // full raw object data including the 32-byte header
}

func NewChecksumInspector(obj *types.ObjPhysT, payload []byte) *ChecksumInspector {
	return &ChecksumInspector{Obj: obj, Payload: payload}
}

func (c *ChecksumInspector) Checksum() [types.MaxCksumSize]byte {
	return c.Obj.OChecksum
}

// VerifyChecksum recomputes the Fletcher-64 checksum over everything after
// the stored checksum field and compares it to o_cksum. The checksum field
// itself (the first 8 bytes of every object) is never part of the input.
func (c *ChecksumInspector) VerifyChecksum() bool {
	if len(c.Payload) <= types.MaxCksumSize {
		return false
	}

	body := c.Payload[types.MaxCksumSize:]
	if len(body)%4 != 0 {
		return false
	}

	calculated := Fletcher64(body)
	return calculated == c.Obj.OChecksum
}

// Fletcher64 computes the modular Fletcher-64 checksum APFS stores in
// o_cksum. data must be a whole number of 32-bit words; the 8-byte checksum
// field itself is never part of the input (equivalently, treating it as
// zero, since leading zero words don't perturb either running sum).
//
// The two running sums accumulate mod (2^32 - 1); the stored checksum is
// then the pair of correction words that would drive both sums to zero if
// appended as one more word to the stream.
func Fletcher64(data []byte) [types.MaxCksumSize]byte {
	const mod = uint64(0xFFFFFFFF)

	var sum1, sum2 uint64
	words := len(data) / 4

	for i := 0; i < words; i++ {
		word := uint64(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
		sum1 = (sum1 + word) % mod
		sum2 = (sum2 + sum1) % mod
	}

	c0 := mod - ((sum1 + sum2) % mod)
	c1 := mod - ((sum1 + c0) % mod)

	var checksum [types.MaxCksumSize]byte
	binary.LittleEndian.PutUint32(checksum[0:4], uint32(c0))
	binary.LittleEndian.PutUint32(checksum[4:8], uint32(c1))
	return checksum
}
