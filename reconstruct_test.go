// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"strings"
	"testing"
)

func TestReconstructJSNoBytecode(t *testing.T) {
	sfi := &SharedFunctionInfo{Name: "empty"}
	got := ReconstructJS(sfi, nil)
	if !strings.Contains(got, "No bytecode available for empty") {
		t.Errorf("ReconstructJS() got %q, want a no-bytecode comment", got)
	}
}

func TestReconstructJSLiteralReturn(t *testing.T) {
	// LdaSmi [5]; Return
	sfi := &SharedFunctionInfo{
		Name: "five",
		Bytecode: &BytecodeData{
			Bytecode:     []byte{0x03, 0x05, 0x95},
			ConstantPool: &ConstantPool{},
		},
	}

	got := ReconstructJS(sfi, nil)
	if !strings.Contains(got, "return 5;") {
		t.Errorf("ReconstructJS() got %q, want it to contain \"return 5;\"", got)
	}
}

func TestReconstructJSRegisterAssignment(t *testing.T) {
	// LdaSmi [7]; Star r0; Ldar r0; Return
	sfi := &SharedFunctionInfo{
		Name: "storesThenReturns",
		ScopeInfo: &ScopeInfo{
			StackLocalsCount: 1,
			StackLocals:      []string{"x"},
		},
		Bytecode: &BytecodeData{
			Bytecode:     []byte{0x03, 0x07, 0x1e, 0xfb, 0x1d, 0xfb, 0x95},
			ConstantPool: &ConstantPool{},
		},
	}

	got := ReconstructJS(sfi, nil)
	if !strings.Contains(got, "return") {
		t.Errorf("ReconstructJS() got %q, want a return statement", got)
	}
}
