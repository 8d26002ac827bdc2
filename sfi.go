// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "fmt"

// SharedFunctionInfo is a decoded V8 SharedFunctionInfo: everything about
// one function literal that's shared across every closure instantiated from
// it, including its bytecode and scope chain.
type SharedFunctionInfo struct {
	FunctionLiteralID     uint32
	FunctionLength        uint32
	FormalParameterCount  uint32
	ExpectedNofProperties uint32
	StartPositionAndType  uint32
	EndPosition           uint32
	FunctionTokenPosition uint32
	CompilerHints         uint32

	CodeOffset HeapSlot

	Name string

	ScopeInfo      *ScopeInfo
	OuterScopeInfo *ScopeInfo

	Bytecode *BytecodeData

	Identifier string
}

// NewSharedFunctionInfo decodes obj (an OLD_SPACE heap object reached from a
// Script's shared_function_infos array) into a SharedFunctionInfo. cache
// memoizes ScopeInfo decoding across sibling functions that share a scope.
func NewSharedFunctionInfo(obj *ReservObject, pointerSize uint32, cache *scopeInfoCache) *SharedFunctionInfo {
	if cache == nil {
		cache = newScopeInfoCache()
	}
	ps := pointerSize

	kCodeOffset := ps
	kNameOffset := kCodeOffset + ps
	kScopeInfoOffset := kNameOffset + ps
	kOuterScopeInfoOffset := kScopeInfoOffset + ps
	kConstructStubOffset := kOuterScopeInfoOffset + ps
	kInstanceClassNameOffset := kConstructStubOffset + ps
	kFunctionDataOffset := kInstanceClassNameOffset + ps
	kScriptOffset := kFunctionDataOffset + ps
	kDebugInfoOffset := kScriptOffset + ps
	kFunctionIdentifierOffset := kDebugInfoOffset + ps
	kFeedbackMetadataOffset := kFunctionIdentifierOffset + ps
	kPreParsedScopeDataOffset := kFeedbackMetadataOffset + ps
	kFunctionLiteralIdOffset := kPreParsedScopeDataOffset + ps
	kLengthOffset := kFunctionLiteralIdOffset + 4
	kFormalParameterCountOffset := kLengthOffset + 4
	kExpectedNofPropertiesOffset := kFormalParameterCountOffset + 4
	kStartPositionAndTypeOffset := kExpectedNofPropertiesOffset + 4
	kEndPositionOffset := kStartPositionAndTypeOffset + 4
	kFunctionTokenPositionOffset := kEndPositionOffset + 4
	kCompilerHintsOffset := kFunctionTokenPositionOffset + 4

	sfi := &SharedFunctionInfo{
		FunctionLiteralID:     obj.GetInt(kFunctionLiteralIdOffset),
		FunctionLength:        obj.GetInt(kLengthOffset),
		FormalParameterCount:  obj.GetInt(kFormalParameterCountOffset),
		ExpectedNofProperties: obj.GetInt(kExpectedNofPropertiesOffset),
		StartPositionAndType:  obj.GetInt(kStartPositionAndTypeOffset),
		EndPosition:           obj.GetInt(kEndPositionOffset),
		FunctionTokenPosition: obj.GetInt(kFunctionTokenPositionOffset),
		CompilerHints:         obj.GetInt(kCompilerHintsOffset),
		CodeOffset:            obj.GetAlignedObject(kCodeOffset),
	}

	nameSlot := obj.GetAlignedObject(kNameOffset)
	switch {
	case nameSlot.Kind == SlotInt && nameSlot.Int == 0:
		sfi.Name = "empty_string"
	default:
		sfi.Name = slotToName(nameSlot, ps)
	}
	sfi.Name = stripSubstring(stripSpaces(sfi.Name), "empty_string")
	if sfi.Name == "" {
		sfi.Name = fmt.Sprintf("func_%04d", sfi.FunctionLiteralID)
	}

	if scopeSlot := obj.GetAlignedObject(kScopeInfoOffset); scopeSlot.Kind == SlotObject {
		sfi.ScopeInfo = cache.get(scopeSlot.Object, ps)
	}
	if outerSlot := obj.GetAlignedObject(kOuterScopeInfoOffset); outerSlot.Kind == SlotObject {
		sfi.OuterScopeInfo = cache.get(outerSlot.Object, ps)
	}
	if bcSlot := obj.GetAlignedObject(kFunctionDataOffset); bcSlot.Kind == SlotObject {
		sfi.Bytecode = NewBytecodeData(bcSlot.Object, ps)
	}

	sfi.Identifier = slotToName(obj.GetAlignedObject(kFunctionIdentifierOffset), ps)

	return sfi
}

func stripSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			out = append(out, '_')
		} else {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func (sfi *SharedFunctionInfo) String() string {
	return fmt.Sprintf("SharedFunctionInfo(%s, id=%d, params=%d)", sfi.Name, sfi.FunctionLiteralID, sfi.FormalParameterCount)
}
