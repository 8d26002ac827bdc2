// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

// OperandKind classifies one bytecode operand, determining both how many
// bytes the disassembler consumes for it and how it's rendered.
type OperandKind int

const (
	OperandReg OperandKind = iota
	OperandImm
	OperandIdx
	OperandUImm
	OperandFlag8
	OperandIntrinsicID
	OperandRuntimeID // always 2 bytes regardless of Wide/ExtraWide
	OperandRegRange  // register + count, for variadic calls
	OperandRegPair
	OperandRegTriple
)

// Opcode describes one Ignition bytecode: its mnemonic and the operand
// schema that follows it.
type Opcode struct {
	Mnemonic string
	Operands []OperandKind
}

// opcodes is the Ignition instruction set this package understands, indexed
// by opcode byte (after stripping any Wide/ExtraWide prefix).
var opcodes = map[byte]Opcode{
	0x00: {"Wide", nil},
	0x01: {"ExtraWide", nil},
	0x02: {"LdaZero", nil},
	0x03: {"LdaSmi", []OperandKind{OperandImm}},
	0x04: {"LdaUndefined", nil},
	0x05: {"LdaNull", nil},
	0x06: {"LdaTheHole", nil},
	0x07: {"LdaTrue", nil},
	0x08: {"LdaFalse", nil},
	0x09: {"LdaConstant", []OperandKind{OperandIdx}},
	0x0a: {"LdaGlobal", []OperandKind{OperandIdx, OperandIdx}},
	0x0b: {"LdaGlobalInsideTypeof", []OperandKind{OperandIdx, OperandIdx}},
	0x0c: {"StaGlobalSloppy", []OperandKind{OperandIdx, OperandIdx}},
	0x0d: {"StaGlobalStrict", []OperandKind{OperandIdx, OperandIdx}},
	0x0e: {"PushContext", []OperandKind{OperandReg}},
	0x0f: {"PopContext", []OperandKind{OperandReg}},
	0x10: {"LdaContextSlot", []OperandKind{OperandReg, OperandIdx, OperandUImm}},
	0x11: {"LdaImmutableContextSlot", []OperandKind{OperandReg, OperandIdx, OperandUImm}},
	0x12: {"LdaCurrentContextSlot", []OperandKind{OperandIdx}},
	0x13: {"LdaImmutableCurrentContextSlot", []OperandKind{OperandIdx}},
	0x14: {"StaContextSlot", []OperandKind{OperandReg, OperandIdx, OperandUImm}},
	0x15: {"StaCurrentContextSlot", []OperandKind{OperandIdx}},
	0x16: {"LdaLookupSlot", []OperandKind{OperandIdx}},
	0x17: {"LdaLookupContextSlot", []OperandKind{OperandIdx, OperandIdx, OperandUImm}},
	0x18: {"LdaLookupGlobalSlot", []OperandKind{OperandIdx, OperandIdx, OperandUImm}},
	0x19: {"LdaLookupSlotInsideTypeof", []OperandKind{OperandIdx}},
	0x1a: {"LdaLookupContextSlotInsideTypeof", []OperandKind{OperandIdx, OperandIdx, OperandUImm}},
	0x1b: {"LdaLookupGlobalSlotInsideTypeof", []OperandKind{OperandIdx, OperandIdx, OperandUImm}},
	0x1c: {"StaLookupSlot", []OperandKind{OperandIdx, OperandFlag8}},
	0x1d: {"Ldar", []OperandKind{OperandReg}},
	0x1e: {"Star", []OperandKind{OperandReg}},
	0x1f: {"Mov", []OperandKind{OperandReg, OperandReg}},
	0x20: {"LdaNamedProperty", []OperandKind{OperandReg, OperandIdx, OperandIdx}},
	0x21: {"LdaKeyedProperty", []OperandKind{OperandReg, OperandIdx}},
	0x22: {"LdaModuleVariable", []OperandKind{OperandImm, OperandUImm}},
	0x23: {"StaModuleVariable", []OperandKind{OperandImm, OperandUImm}},
	0x24: {"StaNamedPropertySloppy", []OperandKind{OperandReg, OperandIdx, OperandIdx}},
	0x25: {"StaNamedPropertyStrict", []OperandKind{OperandReg, OperandIdx, OperandIdx}},
	0x26: {"StaNamedOwnProperty", []OperandKind{OperandReg, OperandIdx, OperandIdx}},
	0x27: {"StaKeyedPropertySloppy", []OperandKind{OperandReg, OperandReg, OperandIdx}},
	0x28: {"StaKeyedPropertyStrict", []OperandKind{OperandReg, OperandReg, OperandIdx}},
	0x29: {"StaDataPropertyInLiteral", []OperandKind{OperandReg, OperandReg, OperandFlag8, OperandIdx}},
	0x2a: {"CollectTypeProfile", []OperandKind{OperandImm}},
	0x2b: {"Add", []OperandKind{OperandReg, OperandIdx}},
	0x2c: {"Sub", []OperandKind{OperandReg, OperandIdx}},
	0x2d: {"Mul", []OperandKind{OperandReg, OperandIdx}},
	0x2e: {"Div", []OperandKind{OperandReg, OperandIdx}},
	0x2f: {"Mod", []OperandKind{OperandReg, OperandIdx}},
	0x30: {"BitwiseOr", []OperandKind{OperandReg, OperandIdx}},
	0x31: {"BitwiseXor", []OperandKind{OperandReg, OperandIdx}},
	0x32: {"BitwiseAnd", []OperandKind{OperandReg, OperandIdx}},
	0x33: {"ShiftLeft", []OperandKind{OperandReg, OperandIdx}},
	0x34: {"ShiftRight", []OperandKind{OperandReg, OperandIdx}},
	0x35: {"ShiftRightLogical", []OperandKind{OperandReg, OperandIdx}},
	0x36: {"AddSmi", []OperandKind{OperandImm, OperandIdx}},
	0x37: {"SubSmi", []OperandKind{OperandImm, OperandIdx}},
	0x38: {"MulSmi", []OperandKind{OperandImm, OperandIdx}},
	0x39: {"DivSmi", []OperandKind{OperandImm, OperandIdx}},
	0x3a: {"ModSmi", []OperandKind{OperandImm, OperandIdx}},
	0x3b: {"BitwiseOrSmi", []OperandKind{OperandImm, OperandIdx}},
	0x3c: {"BitwiseXorSmi", []OperandKind{OperandImm, OperandIdx}},
	0x3d: {"BitwiseAndSmi", []OperandKind{OperandImm, OperandIdx}},
	0x3e: {"ShiftLeftSmi", []OperandKind{OperandImm, OperandIdx}},
	0x3f: {"ShiftRightSmi", []OperandKind{OperandImm, OperandIdx}},
	0x40: {"ShiftRightLogicalSmi", []OperandKind{OperandImm, OperandIdx}},
	0x41: {"Inc", []OperandKind{OperandIdx}},
	0x42: {"Dec", []OperandKind{OperandIdx}},
	0x43: {"ToBooleanLogicalNot", nil},
	0x44: {"LogicalNot", nil},
	0x45: {"TypeOf", nil},
	0x46: {"DeletePropertyStrict", []OperandKind{OperandReg}},
	0x47: {"DeletePropertySloppy", []OperandKind{OperandReg}},
	0x48: {"GetSuperConstructor", []OperandKind{OperandReg}},
	0x49: {"CallAnyReceiver", []OperandKind{OperandReg, OperandRegRange, OperandIdx}},
	0x4a: {"CallProperty", []OperandKind{OperandReg, OperandRegRange, OperandIdx}},
	0x4b: {"CallProperty0", []OperandKind{OperandReg, OperandReg, OperandIdx}},
	0x4c: {"CallProperty1", []OperandKind{OperandReg, OperandReg, OperandReg, OperandIdx}},
	0x4d: {"CallProperty2", []OperandKind{OperandReg, OperandReg, OperandReg, OperandReg, OperandIdx}},
	0x4e: {"CallUndefinedReceiver", []OperandKind{OperandReg, OperandRegRange, OperandIdx}},
	0x4f: {"CallUndefinedReceiver0", []OperandKind{OperandReg, OperandIdx}},
	0x50: {"CallUndefinedReceiver1", []OperandKind{OperandReg, OperandReg, OperandIdx}},
	0x51: {"CallUndefinedReceiver2", []OperandKind{OperandReg, OperandReg, OperandReg, OperandIdx}},
	0x52: {"CallWithSpread", []OperandKind{OperandReg, OperandRegRange, OperandIdx}},
	0x53: {"CallRuntime", []OperandKind{OperandRuntimeID, OperandRegRange}},
	0x54: {"CallRuntimeForPair", []OperandKind{OperandRuntimeID, OperandRegRange, OperandRegPair}},
	0x55: {"CallJSRuntime", []OperandKind{OperandIdx, OperandRegRange}},
	0x56: {"InvokeIntrinsic", []OperandKind{OperandIntrinsicID, OperandRegRange}},
	0x57: {"Construct", []OperandKind{OperandReg, OperandRegRange, OperandIdx}},
	0x58: {"ConstructWithSpread", []OperandKind{OperandReg, OperandRegRange, OperandIdx}},
	0x59: {"TestEqual", []OperandKind{OperandReg, OperandIdx}},
	0x5a: {"TestEqualStrict", []OperandKind{OperandReg, OperandIdx}},
	0x5b: {"TestLessThan", []OperandKind{OperandReg, OperandIdx}},
	0x5c: {"TestGreaterThan", []OperandKind{OperandReg, OperandIdx}},
	0x5d: {"TestLessThanOrEqual", []OperandKind{OperandReg, OperandIdx}},
	0x5e: {"TestGreaterThanOrEqual", []OperandKind{OperandReg, OperandIdx}},
	0x5f: {"TestEqualStrictNoFeedback", []OperandKind{OperandReg}},
	0x60: {"TestInstanceOf", []OperandKind{OperandReg}},
	0x61: {"TestIn", []OperandKind{OperandReg}},
	0x62: {"TestUndetectable", nil},
	0x63: {"TestNull", nil},
	0x64: {"TestUndefined", nil},
	0x65: {"TestTypeOf", []OperandKind{OperandFlag8}},
	0x66: {"ToName", []OperandKind{OperandReg}},
	0x67: {"ToNumber", []OperandKind{OperandReg, OperandIdx}},
	0x68: {"ToObject", []OperandKind{OperandReg}},
	0x69: {"CreateRegExpLiteral", []OperandKind{OperandIdx, OperandIdx, OperandFlag8}},
	0x6a: {"CreateArrayLiteral", []OperandKind{OperandIdx, OperandIdx, OperandFlag8}},
	0x6b: {"CreateEmptyArrayLiteral", []OperandKind{OperandIdx}},
	0x6c: {"CreateObjectLiteral", []OperandKind{OperandIdx, OperandIdx, OperandFlag8, OperandReg}},
	0x6d: {"CreateEmptyObjectLiteral", nil},
	0x6e: {"CreateClosure", []OperandKind{OperandIdx, OperandIdx, OperandFlag8}},
	0x6f: {"CreateBlockContext", []OperandKind{OperandIdx}},
	0x70: {"CreateCatchContext", []OperandKind{OperandReg, OperandIdx, OperandIdx}},
	0x71: {"CreateFunctionContext", []OperandKind{OperandUImm}},
	0x72: {"CreateEvalContext", []OperandKind{OperandUImm}},
	0x73: {"CreateWithContext", []OperandKind{OperandReg, OperandIdx}},
	0x74: {"CreateMappedArguments", nil},
	0x75: {"CreateUnmappedArguments", nil},
	0x76: {"CreateRestParameter", nil},
	0x77: {"JumpLoop", []OperandKind{OperandUImm, OperandImm}},
	0x78: {"Jump", []OperandKind{OperandUImm}},
	0x79: {"JumpConstant", []OperandKind{OperandIdx}},
	0x7a: {"JumpIfNullConstant", []OperandKind{OperandIdx}},
	0x7b: {"JumpIfNotNullConstant", []OperandKind{OperandIdx}},
	0x7c: {"JumpIfUndefinedConstant", []OperandKind{OperandIdx}},
	0x7d: {"JumpIfNotUndefinedConstant", []OperandKind{OperandIdx}},
	0x7e: {"JumpIfTrueConstant", []OperandKind{OperandIdx}},
	0x7f: {"JumpIfFalseConstant", []OperandKind{OperandIdx}},
	0x80: {"JumpIfJSReceiverConstant", []OperandKind{OperandIdx}},
	0x81: {"JumpIfToBooleanTrueConstant", []OperandKind{OperandIdx}},
	0x82: {"JumpIfToBooleanFalseConstant", []OperandKind{OperandIdx}},
	0x83: {"JumpIfToBooleanTrue", []OperandKind{OperandUImm}},
	0x84: {"JumpIfToBooleanFalse", []OperandKind{OperandUImm}},
	0x85: {"JumpIfTrue", []OperandKind{OperandUImm}},
	0x86: {"JumpIfFalse", []OperandKind{OperandUImm}},
	0x87: {"JumpIfNull", []OperandKind{OperandUImm}},
	0x88: {"JumpIfNotNull", []OperandKind{OperandUImm}},
	0x89: {"JumpIfUndefined", []OperandKind{OperandUImm}},
	0x8a: {"JumpIfNotUndefined", []OperandKind{OperandUImm}},
	0x8b: {"JumpIfJSReceiver", []OperandKind{OperandUImm}},
	0x8c: {"SwitchOnSmiNoFeedback", []OperandKind{OperandIdx, OperandUImm, OperandImm}},
	0x8d: {"ForInPrepare", []OperandKind{OperandReg, OperandRegTriple}},
	0x8e: {"ForInContinue", []OperandKind{OperandReg, OperandReg}},
	0x8f: {"ForInNext", []OperandKind{OperandReg, OperandReg, OperandRegPair, OperandIdx}},
	0x90: {"ForInStep", []OperandKind{OperandReg}},
	0x91: {"StackCheck", nil},
	0x92: {"SetPendingMessage", nil},
	0x93: {"Throw", nil},
	0x94: {"ReThrow", nil},
	0x95: {"Return", nil},
	0x96: {"ThrowReferenceErrorIfHole", []OperandKind{OperandIdx}},
	0x97: {"ThrowSuperNotCalledIfHole", nil},
	0x98: {"ThrowSuperAlreadyCalledIfNotHole", nil},
	0x99: {"RestoreGeneratorState", []OperandKind{OperandReg}},
	0x9a: {"SuspendGenerator", []OperandKind{OperandReg, OperandRegRange, OperandUImm}},
	0x9b: {"RestoreGeneratorRegisters", []OperandKind{OperandReg, OperandRegRange}},
	0x9c: {"Debugger", nil},
	0x9d: {"DebugBreak0", nil},
	0x9e: {"DebugBreak1", []OperandKind{OperandReg}},
	0x9f: {"DebugBreak2", []OperandKind{OperandReg, OperandReg}},
	0xa0: {"DebugBreak3", []OperandKind{OperandReg, OperandReg, OperandReg}},
	0xa1: {"DebugBreak4", []OperandKind{OperandReg, OperandReg, OperandReg, OperandReg}},
	0xa2: {"DebugBreak5", []OperandKind{OperandRuntimeID, OperandReg, OperandReg}},
	0xa3: {"DebugBreak6", []OperandKind{OperandRuntimeID, OperandReg, OperandReg, OperandReg}},
	0xa4: {"DebugBreakWide", nil},
	0xa5: {"DebugBreakExtraWide", nil},
	0xa6: {"IncBlockCounter", []OperandKind{OperandIdx}},
	0xa7: {"Illegal", nil},
	0xa8: {"Nop", nil},
}

// forwardJumps mnemonics compute their target as instStart + operand.
var forwardJumps = map[string]bool{
	"Jump": true, "JumpIfToBooleanTrue": true, "JumpIfToBooleanFalse": true,
	"JumpIfTrue": true, "JumpIfFalse": true,
	"JumpIfNull": true, "JumpIfNotNull": true,
	"JumpIfUndefined": true, "JumpIfNotUndefined": true,
	"JumpIfJSReceiver": true,
}

// backwardJumps mnemonics compute their target as instStart - operand.
var backwardJumps = map[string]bool{"JumpLoop": true}

// typeofLiterals indexes TestTypeOf's kFlag8 operand.
var typeofLiterals = []string{
	"number", "string", "symbol", "boolean", "undefined",
	"function", "object", "other",
}

// opcodeAliases renames instructions V8 12.4 split or merged back onto the
// mnemonic this table's earlier-era opcode list already knows, so the
// reconstructor's dispatch switch doesn't need two names for one behavior.
var opcodeAliases = map[string]string{
	"GetNamedProperty":               "LdaNamedProperty",
	"GetKeyedProperty":               "LdaKeyedProperty",
	"GetNamedPropertyFromSuper":      "LdaNamedProperty",
	"GetEnumeratedKeyedProperty":     "LdaKeyedProperty",
	"SetNamedProperty":               "StaNamedPropertySloppy",
	"DefineNamedOwnProperty":         "StaNamedOwnProperty",
	"SetKeyedProperty":               "StaKeyedPropertySloppy",
	"DefineKeyedOwnProperty":         "StaKeyedPropertySloppy",
	"DefineKeyedOwnPropertyInLiteral": "StaDataPropertyInLiteral",
	"StaGlobal":                      "StaGlobalSloppy",
}

// canonicalMnemonic resolves a V8-12.4-era rename back to the mnemonic this
// package's dispatch tables are keyed on.
func canonicalMnemonic(name string) string {
	if canon, ok := opcodeAliases[name]; ok {
		return canon
	}
	return name
}
