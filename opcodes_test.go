// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestCanonicalMnemonic(t *testing.T) {

	tests := []struct {
		in   string
		want string
	}{
		{"GetNamedProperty", "LdaNamedProperty"},
		{"SetNamedProperty", "StaNamedPropertySloppy"},
		{"Ldar", "Ldar"}, // not aliased, passes through unchanged
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := canonicalMnemonic(tt.in); got != tt.want {
				t.Errorf("canonicalMnemonic(%q) got %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestOpcodeTableEntriesHaveMnemonics(t *testing.T) {
	if len(opcodes) == 0 {
		t.Fatalf("opcodes table is empty")
	}
	for code, op := range opcodes {
		if op.Mnemonic == "" {
			t.Errorf("opcode 0x%02X has an empty mnemonic", code)
		}
	}
}
