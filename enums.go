// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

// AllocSpace identifies which V8 heap space a reservation chunk or
// back-reference belongs to.
type AllocSpace int

// Allocation spaces, in the order they appear in the reservation table.
const (
	NewSpace AllocSpace = iota
	OldSpace
	CodeSpace
	MapSpace
	LoSpace
)

func (s AllocSpace) String() string {
	switch s {
	case NewSpace:
		return "NEW_SPACE"
	case OldSpace:
		return "OLD_SPACE"
	case CodeSpace:
		return "CODE_SPACE"
	case MapSpace:
		return "MAP_SPACE"
	case LoSpace:
		return "LO_SPACE"
	default:
		return "UNKNOWN_SPACE"
	}
}

// allocSpaceFromInt converts a raw 3-bit space value, returning ok=false for
// anything outside the five known spaces.
func allocSpaceFromInt(v int) (AllocSpace, bool) {
	if v < int(NewSpace) || v > int(LoSpace) {
		return 0, false
	}
	return AllocSpace(v), true
}

// allocWhere is the "where" component of a serializer control byte: where
// the referenced object's backing bytes actually live.
type allocWhere int

const (
	whereNewObject            allocWhere = 0x00
	whereBackref              allocWhere = 0x08
	whereBackrefWithSkip      allocWhere = 0x10
	whereRootArray            allocWhere = 0x05
	wherePartialSnapshotCache allocWhere = 0x06
	whereExternalReference    allocWhere = 0x07
	whereAttachedReference    allocWhere = 0x0D
	whereBuiltin              allocWhere = 0x0E
)

// allocHow is the "how" component: plain allocation vs. from-code allocation
// (the latter biases the allocation point to an inner pointer).
type allocHow int

const (
	howPlain    allocHow = 0x00
	howFromCode allocHow = 0x20
)

// allocPoint is the "within" component: where inside the object the pointer
// being patched actually points.
type allocPoint int

const (
	pointStartOfObject allocPoint = 0x00
	pointInnerPointer  allocPoint = 0x40
)

// caseState bundles a raw control byte with the (where, how, within) triple
// being tested against it, mirroring the Python CaseState/case_statement
// pair used to probe all thirteen valid combinations.
type caseState struct {
	value  int
	where  allocWhere
	how    allocHow
	within allocPoint
}

func caseStatement(s caseState) int {
	return int(s.where) + int(s.how) + int(s.within)
}

// AllocationAlignment controls the padding the deserializer inserts before
// the next object so double-width fields land on an 8-byte boundary.
type AllocationAlignment int

const (
	WordAligned AllocationAlignment = iota
	DoubleAligned
	DoubleUnaligned
)

func allocationAlignmentFromInt(v int) (AllocationAlignment, bool) {
	if v < int(WordAligned) || v > int(DoubleUnaligned) {
		return 0, false
	}
	return AllocationAlignment(v), true
}

// ScopeInfoFlagsScope identifies the kind of lexical scope a ScopeInfo
// describes.
type ScopeInfoFlagsScope int

const (
	EvalScope ScopeInfoFlagsScope = iota
	FunctionScope
	ModuleScope
	ScriptScope
	CatchScope
	BlockScope
	WithScope
)

// ScopeInfoFlagsReceiver describes where a scope's `this` binding lives.
type ScopeInfoFlagsReceiver int

const (
	ReceiverNone ScopeInfoFlagsReceiver = iota
	ReceiverStack
	ReceiverContext
	ReceiverUnused
)

// ScopeInfoFlagsFuncVar describes where a named function expression's own
// binding lives.
type ScopeInfoFlagsFuncVar int

const (
	FuncVarNone ScopeInfoFlagsFuncVar = iota
	FuncVarStack
	FuncVarContext
	FuncVarUnused
)

// ScopeInfoFlagsLang is the scope's language mode.
type ScopeInfoFlagsLang int

const (
	LangSloppy ScopeInfoFlagsLang = iota
	LangStrict
)

// ScopeInfoFlagsFuncKind enumerates the function-literal kinds V8 tracks in
// a ScopeInfo's packed flags word.
type ScopeInfoFlagsFuncKind int

const (
	KindNormalFunction             ScopeInfoFlagsFuncKind = 0
	KindArrowFunction              ScopeInfoFlagsFuncKind = 1
	KindGeneratorFunction          ScopeInfoFlagsFuncKind = 2
	KindConciseMethod              ScopeInfoFlagsFuncKind = 4
	KindConciseGeneratorMethod     ScopeInfoFlagsFuncKind = 6
	KindDefaultConstructor         ScopeInfoFlagsFuncKind = 8
	KindDerivedConstructor         ScopeInfoFlagsFuncKind = 16
	KindBaseConstructor            ScopeInfoFlagsFuncKind = 32
	KindGetterFunction             ScopeInfoFlagsFuncKind = 64
	KindSetterFunction             ScopeInfoFlagsFuncKind = 128
	KindAsyncFunction              ScopeInfoFlagsFuncKind = 256
	KindModule                     ScopeInfoFlagsFuncKind = 512
	KindAccessorFunction           ScopeInfoFlagsFuncKind = 192
	KindDefaultBaseConstructor     ScopeInfoFlagsFuncKind = 40
	KindDefaultDerivedConstructor  ScopeInfoFlagsFuncKind = 24
	KindClassConstructor           ScopeInfoFlagsFuncKind = 56
	KindAsyncArrowFunction         ScopeInfoFlagsFuncKind = 257
	KindAsyncConciseMethod         ScopeInfoFlagsFuncKind = 260
	KindAsyncConciseGeneratorMethod ScopeInfoFlagsFuncKind = 262
	KindAsyncGeneratorFunction     ScopeInfoFlagsFuncKind = 258
)

// ScopeInfoFlags unpacks the single Smi-encoded flags word stored at the
// head of a ScopeInfo into its constituent bitfields.
type ScopeInfoFlags struct {
	Scope                ScopeInfoFlagsScope
	CallsSloppyEval      bool
	LangMode             ScopeInfoFlagsLang
	DeclarationScope     bool
	Receiver             ScopeInfoFlagsReceiver
	HasNewTarget         bool
	FuncVar              ScopeInfoFlagsFuncVar
	AsmModule            bool
	HasSimpleParameters  bool
	Kind                 ScopeInfoFlagsFuncKind
	HasOuterScopeInfo    bool
	IsDebugEvaluateScope bool
}

// NewScopeInfoFlags unpacks flags the same way V8's ScopeInfo::Flags bit
// layout does.
func NewScopeInfoFlags(flags uint32) ScopeInfoFlags {
	return ScopeInfoFlags{
		Scope:                ScopeInfoFlagsScope(flags & 0xF),
		CallsSloppyEval:      (flags&0x10)>>0x04 != 0,
		LangMode:             ScopeInfoFlagsLang((flags & 0x20) >> 0x05),
		DeclarationScope:     (flags&0x40)>>0x06 != 0,
		Receiver:             ScopeInfoFlagsReceiver((flags & 0x180) >> 0x07),
		HasNewTarget:         (flags&0x200)>>0x09 != 0,
		FuncVar:              ScopeInfoFlagsFuncVar((flags & 0xC00) >> 0x0A),
		AsmModule:            (flags&0x1000)>>0x0C != 0,
		HasSimpleParameters:  (flags&0x2000)>>0x0D != 0,
		Kind:                 ScopeInfoFlagsFuncKind((flags & 0x00FFC000) >> 0x0E),
		HasOuterScopeInfo:    (flags&0x01000000)>>0x18 != 0,
		IsDebugEvaluateScope: (flags&0x02000000)>>0x19 != 0,
	}
}

// HasReceiver reports whether the scope binds a `this` slot at all.
func (f ScopeInfoFlags) HasReceiver() bool {
	return f.Receiver != ReceiverUnused && f.Receiver != ReceiverNone
}

// HasFunctionVar reports whether the scope binds the named-function-
// expression's own name.
func (f ScopeInfoFlags) HasFunctionVar() bool {
	return f.FuncVar != FuncVarNone
}

// HasOuterScope reports whether a parent ScopeInfo pointer follows.
func (f ScopeInfoFlags) HasOuterScope() bool {
	return f.HasOuterScopeInfo
}

func (s ScopeInfoFlagsScope) String() string {
	switch s {
	case EvalScope:
		return "EVAL_SCOPE"
	case FunctionScope:
		return "FUNCTION_SCOPE"
	case ModuleScope:
		return "MODULE_SCOPE"
	case ScriptScope:
		return "SCRIPT_SCOPE"
	case CatchScope:
		return "CATCH_SCOPE"
	case BlockScope:
		return "BLOCK_SCOPE"
	case WithScope:
		return "WITH_SCOPE"
	default:
		return "UNKNOWN"
	}
}

func (l ScopeInfoFlagsLang) String() string {
	if l == LangStrict {
		return "STRICT"
	}
	return "SLOPPY"
}
