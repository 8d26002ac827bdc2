// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestDisassembleBytecodeSimple(t *testing.T) {
	// LdaZero; Ldar a0; Return
	bytecode := []byte{0x02, 0x1d, 0x02, 0x95}

	insns := DisassembleBytecode(bytecode, nil, nil)
	if len(insns) != 3 {
		t.Fatalf("DisassembleBytecode() got %d instructions, want 3", len(insns))
	}

	if insns[0].Mnemonic != "LdaZero" || insns[0].Offset != 0 {
		t.Errorf("insns[0] got %+v, want LdaZero at offset 0", insns[0])
	}
	if insns[1].Mnemonic != "Ldar" || insns[1].Operands != "a0" {
		t.Errorf("insns[1] got %+v, want Ldar a0", insns[1])
	}
	if insns[2].Mnemonic != "Return" || insns[2].Offset != 3 {
		t.Errorf("insns[2] got %+v, want Return at offset 3", insns[2])
	}
}

func TestDisassembleBytecodeWidePrefix(t *testing.T) {
	// Wide.Ldar with a 2-byte register operand 0x0001 encoded little-endian;
	// a big-endian misread would instead see 0x0100 (truncated to register
	// byte 0) and render "Wide" instead of "ExtraWide".
	bytecode := []byte{0x00, 0x1d, 0x01, 0x00}

	insns := DisassembleBytecode(bytecode, nil, nil)
	if len(insns) != 1 {
		t.Fatalf("DisassembleBytecode() got %d instructions, want 1", len(insns))
	}
	if insns[0].Mnemonic != "Wide.Ldar" {
		t.Errorf("insns[0].Mnemonic got %q, want \"Wide.Ldar\"", insns[0].Mnemonic)
	}
	if insns[0].Operands != "ExtraWide" {
		t.Errorf("insns[0].Operands got %q, want %q (register byte 0x0001 decoded little-endian)", insns[0].Operands, "ExtraWide")
	}
}

func TestDisassembleBytecodeUnknownOpcode(t *testing.T) {
	bytecode := []byte{0xFF}
	insns := DisassembleBytecode(bytecode, nil, nil)
	if len(insns) != 1 || insns[0].Mnemonic != "UNKNOWN" {
		t.Errorf("DisassembleBytecode() got %+v, want one UNKNOWN instruction", insns)
	}
}

func TestDisassembleBytecodeConstantPoolAnnotation(t *testing.T) {
	// LdaConstant [0]
	bytecode := []byte{0x09, 0x00}
	cp := &ConstantPool{Items: []ConstantPoolValue{{Kind: CPString, Str: "hello"}}}

	insns := DisassembleBytecode(bytecode, cp, nil)
	if len(insns) != 1 {
		t.Fatalf("DisassembleBytecode() got %d instructions, want 1", len(insns))
	}
	if insns[0].Comment != `"hello"` {
		t.Errorf("insns[0].Comment got %q, want %q", insns[0].Comment, `"hello"`)
	}
}
