// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "encoding/binary"

// getArrayLengthOffset and getArrayHeaderSize give the standard FixedArray
// layout every length-prefixed structure here (HandlerTable, ConstantPool,
// BytecodeArray) shares: a map pointer, then a tagged length Smi, then the
// elements themselves.
func getArrayLengthOffset(pointerSize uint32) uint32 { return pointerSize }
func getArrayHeaderSize(pointerSize uint32) uint32   { return getArrayLengthOffset(pointerSize) + pointerSize }

// HandlerTableEntry is one try/catch (or try/finally) protected range: bytes
// [Start, End) in the bytecode dispatch to Handler when an exception is
// thrown, predicted to be caught per Prediction.
type HandlerTableEntry struct {
	Start     int64
	End       int64
	Prediction int64
	Handler   int64
	Data      int64
}

// HandlerTable is a BytecodeArray's exception handler ranges, stored as a
// flat FixedArray of 4-tuples (start, end, handler-and-prediction, data).
type HandlerTable struct {
	Entries []HandlerTableEntry
}

// NewHandlerTable decodes obj (a FixedArray heap object) into a HandlerTable.
func NewHandlerTable(obj *ReservObject, pointerSize uint32) *HandlerTable {
	arrLenOff := getArrayLengthOffset(pointerSize)
	arrHdrSize := getArrayHeaderSize(pointerSize)

	count := obj.GetSmiInt(arrLenOff) / 4
	ht := &HandlerTable{Entries: make([]HandlerTableEntry, 0, count)}

	for i := int64(0); i < count; i++ {
		start := obj.GetSmiInt(arrHdrSize + uint32(4*i+0)*pointerSize)
		end := obj.GetSmiInt(arrHdrSize + uint32(4*i+1)*pointerSize)
		handler := obj.GetSmiInt(arrHdrSize + uint32(4*i+2)*pointerSize)
		data := obj.GetSmiInt(arrHdrSize + uint32(4*i+3)*pointerSize)

		ht.Entries = append(ht.Entries, HandlerTableEntry{
			Start:      start,
			End:        end,
			Prediction: handler & 7,
			Handler:    handler >> 3,
			Data:       data,
		})
	}
	return ht
}

// ConstantPool is a BytecodeArray's operand constant table: every LdaConstant
// and friends index into this by a kIdx operand.
type ConstantPool struct {
	Items []ConstantPoolValue
}

// NewConstantPool decodes obj (a FixedArray heap object) into a ConstantPool.
func NewConstantPool(obj *ReservObject, pointerSize uint32) *ConstantPool {
	arrLenOff := getArrayLengthOffset(pointerSize)
	arrHdrSize := getArrayHeaderSize(pointerSize)

	count := obj.GetSmiInt(arrLenOff)
	cp := &ConstantPool{Items: make([]ConstantPoolValue, 0, count)}

	for i := int64(0); i < count; i++ {
		raw := obj.GetAlignedObject(arrHdrSize + uint32(i)*pointerSize)
		cp.Items = append(cp.Items, prepareForAlloc(raw, pointerSize))
	}
	return cp
}

// BytecodeData is a decoded BytecodeArray: the raw Ignition bytecode stream
// plus its constant pool and exception handler table.
type BytecodeData struct {
	Length          int64
	FrameSize       uint32
	ParameterSize   uint32
	ConstantPool    *ConstantPool
	HandlerTable    *HandlerTable
	Bytecode        []byte
}

// NewBytecodeData decodes obj (the SharedFunctionInfo's function_data slot,
// when it points at interpreted bytecode rather than a builtin) into a
// BytecodeData. The bytecode byte stream is packed oddly: the first two
// bytes live in the high half of the dword at kOSRNestingLevelOffset, with
// the rest following as whole dwords from kHeaderSize.
func NewBytecodeData(obj *ReservObject, pointerSize uint32) *BytecodeData {
	arrLenOff := getArrayLengthOffset(pointerSize)
	arrHdrSize := getArrayHeaderSize(pointerSize)

	kConstantPoolOffset := arrHdrSize
	kHandlerTableOffset := kConstantPoolOffset + pointerSize
	kSourcePositionTableOffset := kHandlerTableOffset + pointerSize
	kFrameSizeOffset := kSourcePositionTableOffset + pointerSize
	kParameterSizeOffset := kFrameSizeOffset + 4
	kIncomingNewTargetOrGeneratorRegisterOffset := kParameterSizeOffset + 4
	kInterruptBudgetOffset := kIncomingNewTargetOrGeneratorRegisterOffset + 4
	kOSRNestingLevelOffset := kInterruptBudgetOffset + 4
	kBytecodeAgeOffset := kOSRNestingLevelOffset + 1
	kHeaderSize := kBytecodeAgeOffset + 1 + 2

	bd := &BytecodeData{
		Length:        obj.GetSmiInt(arrLenOff),
		FrameSize:     obj.GetInt(kFrameSizeOffset),
		ParameterSize: obj.GetInt(kParameterSizeOffset) / pointerSize,
	}

	if cpSlot := obj.GetAlignedObject(kConstantPoolOffset); cpSlot.Kind == SlotObject {
		bd.ConstantPool = NewConstantPool(cpSlot.Object, pointerSize)
	}
	if htSlot := obj.GetAlignedObject(kHandlerTableOffset); htSlot.Kind == SlotObject {
		bd.HandlerTable = NewHandlerTable(htSlot.Object, pointerSize)
	}

	tmp := obj.GetInt(kOSRNestingLevelOffset)
	bytecode := make([]byte, 0, bd.Length)
	bytecode = append(bytecode, byte(tmp>>16), byte(tmp>>24))

	remaining := bd.Length - 2
	for i := int64(0); i < remaining; i += 4 {
		dw := obj.GetInt(kHeaderSize + uint32(i))
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], dw)
		bytecode = append(bytecode, b[:]...)
	}

	if int64(len(bytecode)) > bd.Length {
		bytecode = bytecode[:bd.Length]
	}
	bd.Bytecode = bytecode
	return bd
}
