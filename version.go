// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"fmt"
	"strconv"
	"strings"
)

// hashValueUnsigned implements V8's internal ComputeUnsignedLongHash, used as
// the first fold of the per-field version hash below.
func hashValueUnsigned(v uint32) uint32 {
	v = (v << 15) - v - 1
	v ^= v >> 12
	v += v << 2
	v ^= v >> 4
	v *= 2057
	v ^= v >> 16
	return v
}

// hashCombine folds value into seed the way V8's base::hash_combine does for
// 32-bit snapshots (murmur-style avalanche).
func hashCombine(seed, value uint32) uint32 {
	value *= 0xCC9E2D51
	value = (value >> 15) | (value << 17)
	value *= 0x1B873593
	seed ^= value
	seed = (seed >> 13) | (seed << 19)
	seed = seed*5 + 0xE6546B64
	return seed
}

// hashCombine64 is the 64-bit counterpart used by 64-bit V8 builds.
func hashCombine64(seed, value uint64) uint64 {
	const m = 0xC6A4A7935BD1E995
	value *= m
	value ^= value >> 47
	value *= m
	seed ^= value
	seed *= m
	return seed
}

// versionHash32 reproduces V8's Version::Hash for a 32-bit build.
func versionHash32(major, minor, build, patch uint32) uint32 {
	seed := uint32(0)
	seed = hashCombine(seed, hashValueUnsigned(patch))
	seed = hashCombine(seed, hashValueUnsigned(build))
	seed = hashCombine(seed, hashValueUnsigned(minor))
	seed = hashCombine(seed, hashValueUnsigned(major))
	return seed
}

// versionHash64 reproduces V8's Version::Hash for a 64-bit build, folded
// back down to 32 bits since that's the width stored in the snapshot header.
func versionHash64(major, minor, build, patch uint32) uint32 {
	seed := uint64(0)
	seed = hashCombine64(seed, uint64(hashValueUnsigned(patch)))
	seed = hashCombine64(seed, uint64(hashValueUnsigned(build)))
	seed = hashCombine64(seed, uint64(hashValueUnsigned(minor)))
	seed = hashCombine64(seed, uint64(hashValueUnsigned(major)))
	return uint32(seed)
}

// VersionCatalog maps the version hash embedded in a .jsc header back to the
// dotted V8 version string ("major.minor.build.patch") that produced it, and
// reports whether that version ships 32-bit or 64-bit pointers.
type VersionCatalog struct {
	hashes32 map[uint32]string
	hashes64 map[uint32]string
}

// NewVersionCatalog builds a catalog from a list of "major.minor.build.patch"
// version strings, precomputing both the 32-bit and 64-bit hash for each.
func NewVersionCatalog(versions []string) *VersionCatalog {
	c := &VersionCatalog{
		hashes32: make(map[uint32]string, len(versions)),
		hashes64: make(map[uint32]string, len(versions)),
	}
	for _, ver := range versions {
		parts := strings.Split(ver, ".")
		if len(parts) != 4 {
			continue
		}
		nums := make([]uint32, 4)
		ok := true
		for i, p := range parts {
			n, err := strconv.ParseUint(p, 10, 32)
			if err != nil {
				ok = false
				break
			}
			nums[i] = uint32(n)
		}
		if !ok {
			continue
		}
		major, minor, build, patch := nums[0], nums[1], nums[2], nums[3]
		c.hashes32[versionHash32(major, minor, build, patch)] = ver
		c.hashes64[versionHash64(major, minor, build, patch)] = ver
	}
	return c
}

// DetectVersion returns the dotted version string for hash, or "" if the
// hash does not match any cataloged V8 release.
func (c *VersionCatalog) DetectVersion(hash uint32) string {
	if ver, ok := c.hashes32[hash]; ok {
		return ver
	}
	if ver, ok := c.hashes64[hash]; ok {
		return ver
	}
	return ""
}

// DetectBitness reports whether hash corresponds to a 32-bit build. The
// second return value is false if hash is not in the catalog at all.
func (c *VersionCatalog) DetectBitness(hash uint32) (is32Bit bool, known bool) {
	if _, ok := c.hashes32[hash]; ok {
		return true, true
	}
	if _, ok := c.hashes64[hash]; ok {
		return false, true
	}
	return false, false
}

// defaultVersionCatalog is loaded once from the embedded v8_versions.json
// table and used whenever a caller does not supply their own via Options.
var defaultVersionCatalog = NewVersionCatalog(loadEmbeddedVersions())

func formatVersionHash(h uint32) string {
	return fmt.Sprintf("0x%08X", h)
}
