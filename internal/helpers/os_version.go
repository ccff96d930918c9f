package helpers

import "github.com/deploymenttheory/go-apfs/internal/types"

// PackOsVersion builds a CpKeyOsVersionT from the major OS version, the
// single-letter minor/point revision, and a 16-bit build number. The build
// number is truncated to its low 16 bits; anything wider than that doesn't
// fit in the on-disk field.
func PackOsVersion(majorVersion uint16, minorLetter byte, buildNumber uint32) types.CpKeyOsVersionT {
	return types.CpKeyOsVersionT(uint32(majorVersion)<<24 | uint32(minorLetter)<<16 | (buildNumber & 0xFFFF))
}

// UnpackOsVersion splits a CpKeyOsVersionT back into its major version,
// minor letter, and build number components.
func UnpackOsVersion(version types.CpKeyOsVersionT) (majorVersion uint16, minorLetter byte, buildNumber uint32) {
	majorVersion = uint16((version >> 24) & 0xFF)
	minorLetter = byte((version >> 16) & 0xFF)
	buildNumber = uint32(version & 0xFFFF)
	return
}
