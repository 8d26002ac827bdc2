// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/text/encoding/unicode"
)

// ConstantPoolValueKind tags the value a constant pool slot resolves to once
// prepareForAlloc has looked at its underlying heap representation.
type ConstantPoolValueKind int

const (
	CPNone ConstantPoolValueKind = iota
	CPInt
	CPFloat
	CPString
	CPIntArray
	CPRoot
	CPRef
	CPObject
)

// ConstantPoolRef names a constant pool entry that prepareForAlloc declined
// to fully materialize (a nested SharedFunctionInfo, ScopeInfo, Tuple, or
// other structured object); the disassembler prints Name as a placeholder
// rather than recursing into it.
type ConstantPoolRef struct {
	TypeName string
	Name     string
}

// NewConstantPoolRef mirrors the Python constructor's "name defaults to
// type_name" behavior.
func NewConstantPoolRef(typeName, name string) ConstantPoolRef {
	if name == "" {
		name = typeName
	}
	return ConstantPoolRef{TypeName: typeName, Name: name}
}

func (r ConstantPoolRef) String() string { return r.Name }

// ConstantPoolValue is the normalized form of one constant pool entry,
// ready to print or feed to the reconstructor.
type ConstantPoolValue struct {
	Kind     ConstantPoolValueKind
	Int      int64
	Float    float64
	Str      string
	IntArray []int64
	Root     RootObject
	Ref      ConstantPoolRef
	Object   *ReservObject
}

// twoIntsToDouble reinterprets two little-endian 32-bit words as an IEEE 754
// double, the way V8 stores a HeapNumber's value across two tagged slots.
func twoIntsToDouble(lo, hi uint32) float64 {
	return math.Float64frombits(uint64(lo) | uint64(hi)<<32)
}

// reservObjectToBytes reads a length-prefixed byte run out of obj: the Smi
// at lenDwordIndex*pointerSize gives the character count (doubled for
// 16-bit-per-character strings), and the bytes immediately follow.
func reservObjectToBytes(obj *ReservObject, lenDwordIndex uint32, is16LE bool, pointerSize uint32) []byte {
	length := obj.GetSmiInt(lenDwordIndex * pointerSize)
	if is16LE {
		length *= 2
	}
	if length <= 0 {
		return nil
	}
	result := make([]byte, length)
	var i int64
	for ; i < length; i += 4 {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], obj.GetInt((lenDwordIndex+1)*pointerSize+uint32(i)))
		for j := 0; j < 4; j++ {
			if i+int64(j) < length {
				result[i+int64(j)] = tmp[j]
			} else {
				break
			}
		}
	}
	return result
}

func decodeUTF16LE(raw []byte) string {
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := decoder.Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(s)
}

// convertConsOneByteStringSlot flattens a (possibly Cons-concatenated)
// one-byte string heap value into a Go string.
func convertConsOneByteStringSlot(slot HeapSlot, pointerSize uint32) string {
	switch slot.Kind {
	case SlotString:
		return slot.Str
	case SlotRoot:
		return slot.Root.Name
	case SlotObject:
		obj := slot.Object
		typeSlot := obj.GetAlignedObject(0)
		if typeSlot.Kind != SlotRoot {
			return ""
		}
		switch typeSlot.Root.Name {
		case "OneByteInternalizedString", "OneByteString":
			v, ok := convertReservObject(obj, pointerSize)
			if ok && v.Kind == CPString {
				return v.Str
			}
			return ""
		case "ConsOneByteString":
			left := convertConsOneByteStringSlot(obj.GetAlignedObject(3*pointerSize), pointerSize)
			right := convertConsOneByteStringSlot(obj.GetAlignedObject(4*pointerSize), pointerSize)
			return left + right
		}
	}
	return ""
}

// convertReservObject decodes obj according to the V8 map name stored in its
// first slot. ok is false when obj's shape is not one convertReservObject
// knows how to render (the caller should fall back to a ConstantPoolRef).
func convertReservObject(obj *ReservObject, pointerSize uint32) (ConstantPoolValue, bool) {
	typeSlot := obj.GetAlignedObject(0)
	if typeSlot.Kind != SlotRoot {
		return ConstantPoolValue{}, false
	}

	switch typeSlot.Root.Name {
	case "OneByteInternalizedString", "OneByteString":
		raw := reservObjectToBytes(obj, 2, false, pointerSize)
		return ConstantPoolValue{Kind: CPString, Str: string(raw)}, true

	case "InternalizedString":
		raw := reservObjectToBytes(obj, 2, true, pointerSize)
		return ConstantPoolValue{Kind: CPString, Str: decodeUTF16LE(raw)}, true

	case "ConsOneByteString":
		return ConstantPoolValue{Kind: CPString, Str: convertConsOneByteStringSlot(objectSlot(obj), pointerSize)}, true

	case "FixedCOWArray":
		count := (obj.Size() - pointerSize) / 4
		arr := make([]int64, count)
		for i := uint32(0); i < count; i++ {
			arr[i] = int64(obj.GetInt(pointerSize + i*4))
		}
		return ConstantPoolValue{Kind: CPIntArray, IntArray: arr}, true

	case "HeapNumber":
		return ConstantPoolValue{Kind: CPFloat, Float: twoIntsToDouble(obj.GetInt(pointerSize), obj.GetInt(pointerSize+4))}, true
	}

	return ConstantPoolValue{}, false
}

// extractSFIName recovers a function's source name from its
// SharedFunctionInfo, falling back to a func_NNNN placeholder derived from
// its function_literal_id when the name is empty (anonymous functions,
// empty_string root).
func extractSFIName(obj *ReservObject, pointerSize uint32) string {
	ps := pointerSize
	kNameOffset := ps + ps
	nameSlot := obj.GetAlignedObject(kNameOffset)

	var name string
	switch nameSlot.Kind {
	case SlotRoot:
		name = nameSlot.Root.Name
	case SlotObject:
		if v, ok := convertReservObject(nameSlot.Object, ps); ok && v.Kind == CPString {
			name = v.Str
		}
	case SlotString:
		name = nameSlot.Str
	}

	name = stripSubstring(name, "empty_string")
	if name == "" {
		kScriptOffset := ps * 8 // kCodeOffset..kFunctionDataOffset, see getScriptOffset
		kDebugInfoOffset := kScriptOffset + ps
		kFunctionIdentifierOffset := kDebugInfoOffset + ps
		kFeedbackMetadataOffset := kFunctionIdentifierOffset + ps
		kPreParsedScopeDataOffset := kFeedbackMetadataOffset + ps
		kFunctionLiteralIdOffset := kPreParsedScopeDataOffset + ps
		funcID := obj.GetInt(kFunctionLiteralIdOffset)
		name = fmt.Sprintf("func_%04d", funcID)
	}
	return name
}

func stripSubstring(s, sub string) string {
	for {
		idx := indexOf(s, sub)
		if idx < 0 {
			return s
		}
		s = s[:idx] + s[idx+len(sub):]
	}
}

func indexOf(s, sub string) int {
	n, m := len(s), len(sub)
	if m == 0 || m > n {
		return -1
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == sub {
			return i
		}
	}
	return -1
}

// slotToName extracts a printable name from a heap slot that might be a
// root (builtin string), a decodable string object, or a raw string,
// matching the repeated isinstance cascade original_source uses for every
// name-shaped field (SharedFunctionInfo.name, ScopeInfo locals, ...).
func slotToName(slot HeapSlot, pointerSize uint32) string {
	switch slot.Kind {
	case SlotRoot:
		return slot.Root.Name
	case SlotObject:
		if v, ok := convertReservObject(slot.Object, pointerSize); ok && v.Kind == CPString {
			return v.Str
		}
		return ""
	case SlotString:
		return slot.Str
	default:
		return ""
	}
}

// prepareForAlloc normalizes one constant pool slot into a
// ConstantPoolValue, the way object_converter.prepare_for_alloc folds raw
// ReservObject shapes down to printable values (or a ConstantPoolRef
// placeholder when the shape is a structured reference type).
func prepareForAlloc(slot HeapSlot, pointerSize uint32) ConstantPoolValue {
	switch slot.Kind {
	case SlotInt:
		return ConstantPoolValue{Kind: CPInt, Int: int64(slot.Int)}
	case SlotRoot:
		return ConstantPoolValue{Kind: CPRoot, Root: slot.Root}
	case SlotString:
		return ConstantPoolValue{Kind: CPString, Str: slot.Str}
	case SlotObject:
		obj := slot.Object
		typeSlot := obj.GetAlignedObject(0)
		if typeSlot.Kind != SlotRoot {
			return ConstantPoolValue{Kind: CPObject, Object: obj}
		}

		switch typeSlot.Root.Name {
		case "OneByteInternalizedString", "OneByteString", "InternalizedString":
			if v, ok := convertReservObject(obj, pointerSize); ok {
				return v
			}
			return ConstantPoolValue{Kind: CPObject, Object: obj}
		case "ConsOneByteString":
			return ConstantPoolValue{Kind: CPString, Str: convertConsOneByteStringSlot(objectSlot(obj), pointerSize)}
		case "HeapNumber":
			return ConstantPoolValue{Kind: CPFloat, Float: twoIntsToDouble(obj.GetInt(pointerSize), obj.GetInt(pointerSize+4))}
		case "FixedArray", "FixedCOWArray":
			if v, ok := convertReservObject(obj, pointerSize); ok {
				return v
			}
			return ConstantPoolValue{Kind: CPRef, Ref: NewConstantPoolRef("FixedArray", "")}
		case "Tuple2", "Tuple3":
			return ConstantPoolValue{Kind: CPRef, Ref: NewConstantPoolRef(typeSlot.Root.Name, "")}
		case "SharedFunctionInfo":
			name := extractSFIName(obj, pointerSize)
			return ConstantPoolValue{Kind: CPRef, Ref: NewConstantPoolRef("SharedFunctionInfo", fmt.Sprintf("<closure: %s>", name))}
		case "ScopeInfo":
			return ConstantPoolValue{Kind: CPRef, Ref: NewConstantPoolRef("ScopeInfo", "")}
		default:
			return ConstantPoolValue{Kind: CPRef, Ref: NewConstantPoolRef(typeSlot.Root.Name, "")}
		}
	default:
		return ConstantPoolValue{Kind: CPNone}
	}
}
