// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

// ScopeInfo is a decoded V8 ScopeInfo: the compile-time description of one
// lexical scope's parameter, stack-local, and context-local variable names,
// plus a pointer to the scope it's nested in.
type ScopeInfo struct {
	FlagsRaw int64
	Flags    ScopeInfoFlags

	ParamsCount        int64
	StackLocalsCount   int64
	ContextLocalsCount int64

	Params              []string
	StackLocalsFirstSlot int64
	StackLocals         []string
	ContextLocals       []string

	HasReceiver bool
	Receiver    uint32

	HasFuncVar bool
	FuncVar    uint32

	OuterScope *ScopeInfo
}

// scopeInfoCache memoizes ScopeInfo decoding by ReservObject identity, the
// Go equivalent of the Python id()-keyed cycle breaker: a scope and its
// outer scope can both be reachable from multiple SharedFunctionInfos, and
// scope chains can be shared or (in pathological snapshots) cyclic.
type scopeInfoCache struct {
	seen map[*ReservObject]*ScopeInfo
}

func newScopeInfoCache() *scopeInfoCache {
	return &scopeInfoCache{seen: make(map[*ReservObject]*ScopeInfo)}
}

// get returns the cached ScopeInfo for obj, decoding it first if necessary.
func (c *scopeInfoCache) get(obj *ReservObject, pointerSize uint32) *ScopeInfo {
	if si, ok := c.seen[obj]; ok {
		return si
	}
	si := &ScopeInfo{}
	c.seen[obj] = si // pre-register before recursing, breaking cycles
	decodeScopeInfo(si, obj, pointerSize, c)
	return si
}

func decodeScopeInfo(si *ScopeInfo, obj *ReservObject, pointerSize uint32, cache *scopeInfoCache) {
	ps := pointerSize

	kFlagsOffset := ps + ps
	kParameterCount := kFlagsOffset + ps
	kStackLocalCount := kParameterCount + ps
	kContextLocalCount := kStackLocalCount + ps
	kParamsOffset := kContextLocalCount + ps

	si.FlagsRaw = obj.GetSmiInt(kFlagsOffset)
	si.Flags = NewScopeInfoFlags(uint32(si.FlagsRaw))

	si.ParamsCount = obj.GetSmiInt(kParameterCount)
	si.StackLocalsCount = obj.GetSmiInt(kStackLocalCount)
	si.ContextLocalsCount = obj.GetSmiInt(kContextLocalCount)

	offset := kParamsOffset

	si.Params = make([]string, 0, si.ParamsCount)
	for i := int64(0); i < si.ParamsCount; i++ {
		si.Params = append(si.Params, slotToName(obj.GetAlignedObject(offset), ps))
		offset += ps
	}

	si.StackLocalsFirstSlot = obj.GetSmiInt(offset)
	offset += ps

	si.StackLocals = make([]string, 0, si.StackLocalsCount)
	for i := int64(0); i < si.StackLocalsCount; i++ {
		si.StackLocals = append(si.StackLocals, slotToName(obj.GetAlignedObject(offset), ps))
		offset += ps
	}

	si.ContextLocals = make([]string, 0, si.ContextLocalsCount)
	if si.ContextLocalsCount > 0 {
		for i := int64(0); i < si.ContextLocalsCount; i++ {
			si.ContextLocals = append(si.ContextLocals, slotToName(obj.GetAlignedObject(offset), ps))
			offset += ps
		}
		offset += uint32(si.ContextLocalsCount) * ps // skip var-info Smis
	}

	if si.Flags.HasReceiver() {
		si.HasReceiver = true
		si.Receiver = obj.GetInt(offset)
		offset += ps
	}

	if si.Flags.HasFunctionVar() {
		si.HasFuncVar = true
		si.FuncVar = obj.GetInt(offset)
		offset += ps // mode
		offset += ps // name
	}

	if si.Flags.HasOuterScope() {
		outer := obj.GetAlignedObject(offset)
		if outer.Kind == SlotObject {
			si.OuterScope = cache.get(outer.Object, ps)
		}
		offset += ps
	}
}
