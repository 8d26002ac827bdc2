// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestByteToRegister(t *testing.T) {

	tests := []struct {
		in  byte
		out string
	}{
		{0, "Wide"},
		{1, "ExtraWide"},
		{2, "a0"},
		{3, "a1"},
		{127, "a125"},
		{128, "r123"},
		{251, "r0"},
		{252, "_closure"},
		{253, "_context"},
		{254, "??(254)"},
		{255, "??(255)"},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			if got := byteToRegister(tt.in); got != tt.out {
				t.Errorf("byteToRegister(%d) got %q, want %q", tt.in, got, tt.out)
			}
		})
	}
}
