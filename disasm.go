// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "fmt"

// Instruction is one decoded Ignition bytecode: its mnemonic, rendered
// operands, raw bytes, and an optional comment annotating a jump target,
// constant pool value, or TestTypeOf literal.
type Instruction struct {
	Offset   uint32
	Mnemonic string
	Operands string
	Raw      []byte
	Comment  string
}

// constantPoolMnemonics names instructions whose first kIdx operand indexes
// directly into the bytecode's constant pool, so the disassembler can
// annotate the instruction with the literal it loads.
var constantPoolMnemonics = map[string]bool{
	"LdaConstant":                  true,
	"CreateRegExpLiteral":          true,
	"CreateArrayLiteral":           true,
	"CreateObjectLiteral":          true,
	"CreateClosure":                true,
	"CreateBlockContext":           true,
	"CreateCatchContext":           true,
	"JumpConstant":                 true,
	"JumpIfNullConstant":           true,
	"JumpIfNotNullConstant":        true,
	"JumpIfUndefinedConstant":      true,
	"JumpIfNotUndefinedConstant":   true,
	"JumpIfTrueConstant":           true,
	"JumpIfFalseConstant":          true,
	"JumpIfJSReceiverConstant":     true,
	"JumpIfToBooleanTrueConstant":  true,
	"JumpIfToBooleanFalseConstant": true,
	"SwitchOnSmiNoFeedback":        true,
}

// readLittleEndianOperand consumes up to size bytes from bytecode at *i,
// truncating at the buffer's end the way the interpreter's bounds-checked
// reader does on a malformed tail, and advances *i past whatever it read.
// Ignition operands are little-endian, the same as every other multi-byte
// field in this format.
func readLittleEndianOperand(bytecode []byte, i *int, size int) uint32 {
	end := *i + size
	if end > len(bytecode) {
		end = len(bytecode)
	}
	var val uint32
	for shift := 0; *i < end; *i, shift = *i+1, shift+8 {
		val |= uint32(bytecode[*i]) << shift
	}
	return val
}

func formatConstantPoolValue(v ConstantPoolValue) string {
	switch v.Kind {
	case CPString:
		s := v.Str
		if len(s) > 60 {
			s = s[:60]
		}
		return fmt.Sprintf("%q", s)
	case CPInt:
		return fmt.Sprintf("%d", v.Int)
	case CPFloat:
		return fmt.Sprintf("%g", v.Float)
	case CPRoot:
		return v.Root.Name
	case CPRef:
		return v.Ref.Name
	case CPIntArray:
		return fmt.Sprintf("%v", v.IntArray)
	default:
		return ""
	}
}

// DisassembleBytecode decodes a raw Ignition bytecode stream into a sequence
// of Instructions. constantPool resolves LdaConstant-and-friends annotations;
// handlerTable is accepted for callers that want to cross-reference
// exception ranges against instruction offsets but isn't otherwise consulted
// here.
func DisassembleBytecode(bytecode []byte, constantPool *ConstantPool, handlerTable *HandlerTable) []Instruction {
	var out []Instruction
	n := len(bytecode)
	i := 0

	for i < n {
		instStart := i
		opcode := bytecode[i]
		i++

		operandSize := 1
		prefix := ""
		switch opcode {
		case 0x00:
			operandSize = 2
			prefix = "Wide."
			if i < n {
				opcode = bytecode[i]
				i++
			}
		case 0x01:
			operandSize = 4
			prefix = "ExtraWide."
			if i < n {
				opcode = bytecode[i]
				i++
			}
		}

		op, ok := opcodes[opcode]
		if !ok {
			out = append(out, Instruction{
				Offset:   uint32(instStart),
				Mnemonic: "UNKNOWN",
				Operands: fmt.Sprintf("0x%02X", opcode),
				Raw:      append([]byte(nil), bytecode[instStart:i]...),
			})
			continue
		}

		canon := canonicalMnemonic(op.Mnemonic)
		mnemonic := prefix + op.Mnemonic

		var operandStrs []string
		var idxValues []uint32
		flag8Val := int64(-1)
		haveJumpTarget := false
		var jumpTarget int64

		for _, kind := range op.Operands {
			switch kind {
			case OperandRuntimeID:
				val := readLittleEndianOperand(bytecode, &i, 2)
				operandStrs = append(operandStrs, fmt.Sprintf("%d", val))

			case OperandRegRange:
				regVal := readLittleEndianOperand(bytecode, &i, operandSize)
				countVal := readLittleEndianOperand(bytecode, &i, operandSize)
				reg := byteToRegister(byte(regVal))
				if countVal > 1 {
					last := byteToRegister(byte(int(regVal) - int(countVal) + 1))
					operandStrs = append(operandStrs, fmt.Sprintf("%s-%s(%d)", reg, last, countVal))
				} else {
					operandStrs = append(operandStrs, fmt.Sprintf("%s(%d)", reg, countVal))
				}

			case OperandRegPair:
				val := readLittleEndianOperand(bytecode, &i, operandSize)
				operandStrs = append(operandStrs, byteToRegister(byte(val))+"(pair)")

			case OperandRegTriple:
				val := readLittleEndianOperand(bytecode, &i, operandSize)
				operandStrs = append(operandStrs, byteToRegister(byte(val))+"(triple)")

			default:
				raw := readLittleEndianOperand(bytecode, &i, operandSize)
				switch kind {
				case OperandReg:
					operandStrs = append(operandStrs, byteToRegister(byte(raw)))

				case OperandImm:
					v := int64(raw)
					switch {
					case operandSize == 1 && raw > 127:
						v = int64(raw) - 256
					case operandSize == 2 && raw > 32767:
						v = int64(raw) - 65536
					}
					operandStrs = append(operandStrs, fmt.Sprintf("[%d]", v))
					if backwardJumps[canon] && !haveJumpTarget {
						jumpTarget = int64(instStart) - v
						haveJumpTarget = true
					}

				case OperandUImm:
					operandStrs = append(operandStrs, fmt.Sprintf("[%d]", raw))
					switch {
					case forwardJumps[canon]:
						jumpTarget = int64(instStart) + int64(raw)
						haveJumpTarget = true
					case backwardJumps[canon]:
						jumpTarget = int64(instStart) - int64(raw)
						haveJumpTarget = true
					}

				case OperandIdx:
					operandStrs = append(operandStrs, fmt.Sprintf("[%d]", raw))
					idxValues = append(idxValues, raw)

				case OperandFlag8:
					operandStrs = append(operandStrs, fmt.Sprintf("#%d", raw))
					flag8Val = int64(raw)

				case OperandIntrinsicID:
					operandStrs = append(operandStrs, fmt.Sprintf("[%d]", raw))
				}
			}
		}

		comment := ""
		switch {
		case haveJumpTarget:
			comment = fmt.Sprintf("-> @%04X", jumpTarget)
		case constantPool != nil && constantPoolMnemonics[canon] && len(idxValues) > 0:
			if idx := int(idxValues[0]); idx < len(constantPool.Items) {
				comment = formatConstantPoolValue(constantPool.Items[idx])
			}
		case canon == "TestTypeOf" && flag8Val >= 0 && int(flag8Val) < len(typeofLiterals):
			comment = typeofLiterals[flag8Val]
		}

		operands := ""
		for idx, s := range operandStrs {
			if idx > 0 {
				operands += " "
			}
			operands += s
		}

		out = append(out, Instruction{
			Offset:   uint32(instStart),
			Mnemonic: mnemonic,
			Operands: operands,
			Raw:      append([]byte(nil), bytecode[instStart:i]...),
			Comment:  comment,
		})
	}

	return out
}
