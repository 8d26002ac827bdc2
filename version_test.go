// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestVersionHashRoundTrip(t *testing.T) {

	tests := []struct {
		in string
	}{
		{"9.0.257.25"},
		{"7.8.279.23"},
		{"6.8.275.32"},
		{"8.4.371.19"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := NewVersionCatalog([]string{tt.in})

			h32 := c.DetectVersion(mustHash(c, tt.in, true))
			if h32 != tt.in {
				t.Errorf("DetectVersion(32-bit hash) got %q, want %q", h32, tt.in)
			}

			h64 := c.DetectVersion(mustHash(c, tt.in, false))
			if h64 != tt.in {
				t.Errorf("DetectVersion(64-bit hash) got %q, want %q", h64, tt.in)
			}
		})
	}
}

// mustHash returns the hash NewVersionCatalog computed for ver under the
// requested bitness, by scanning the catalog's own maps rather than
// recomputing it a second way, so this test would catch an accidental
// asymmetry between NewVersionCatalog and DetectVersion.
func mustHash(c *VersionCatalog, ver string, is32Bit bool) uint32 {
	m := c.hashes64
	if is32Bit {
		m = c.hashes32
	}
	for hash, v := range m {
		if v == ver {
			return hash
		}
	}
	return 0
}

func TestDetectVersionUnknownHash(t *testing.T) {
	c := NewVersionCatalog([]string{"9.0.257.25"})
	if got := c.DetectVersion(0xDEADBEEF); got != "" {
		t.Errorf("DetectVersion(unknown) got %q, want empty", got)
	}
}

func TestDetectBitness(t *testing.T) {
	c := NewVersionCatalog([]string{"9.0.257.25"})
	h32 := versionHash32(9, 0, 257, 25)
	h64 := versionHash64(9, 0, 257, 25)

	is32, known := c.DetectBitness(h32)
	if !known || !is32 {
		t.Errorf("DetectBitness(32-bit hash) got (%v, %v), want (true, true)", is32, known)
	}

	is32, known = c.DetectBitness(h64)
	if !known || is32 {
		t.Errorf("DetectBitness(64-bit hash) got (%v, %v), want (false, true)", is32, known)
	}

	_, known = c.DetectBitness(0xDEADBEEF)
	if known {
		t.Errorf("DetectBitness(unknown hash) got known=true, want false")
	}
}

func TestVersionHashesDiffer(t *testing.T) {
	// A 32-bit build and a 64-bit build of the same version must not collide,
	// or DetectBitness couldn't tell them apart.
	h32 := versionHash32(9, 0, 257, 25)
	h64 := versionHash64(9, 0, 257, 25)
	if h32 == h64 {
		t.Errorf("versionHash32 and versionHash64 collided for the same version: 0x%08X", h32)
	}
}
