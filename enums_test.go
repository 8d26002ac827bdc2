// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestNewScopeInfoFlags(t *testing.T) {
	// ScriptScope (3), strict mode, receiver on stack, has outer scope info.
	raw := uint32(ScriptScope) |
		(1 << 0x05) | // LangMode = strict
		(uint32(ReceiverStack) << 0x07) |
		(1 << 0x18) // HasOuterScopeInfo

	f := NewScopeInfoFlags(raw)

	if f.Scope != ScriptScope {
		t.Errorf("Scope got %v, want ScriptScope", f.Scope)
	}
	if f.LangMode != LangStrict {
		t.Errorf("LangMode got %v, want LangStrict", f.LangMode)
	}
	if f.Receiver != ReceiverStack {
		t.Errorf("Receiver got %v, want ReceiverStack", f.Receiver)
	}
	if !f.HasOuterScopeInfo {
		t.Errorf("HasOuterScopeInfo got false, want true")
	}
	if !f.HasReceiver() {
		t.Errorf("HasReceiver() got false, want true")
	}
	if f.HasFunctionVar() {
		t.Errorf("HasFunctionVar() got true, want false")
	}
	if !f.HasOuterScope() {
		t.Errorf("HasOuterScope() got false, want true")
	}
}

func TestScopeInfoFlagsReceiverEdgeCases(t *testing.T) {

	tests := []struct {
		name     string
		receiver ScopeInfoFlagsReceiver
		want     bool
	}{
		{"none", ReceiverNone, false},
		{"stack", ReceiverStack, true},
		{"context", ReceiverContext, true},
		{"unused", ReceiverUnused, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ScopeInfoFlags{Receiver: tt.receiver}
			if got := f.HasReceiver(); got != tt.want {
				t.Errorf("HasReceiver() for %v got %v, want %v", tt.receiver, got, tt.want)
			}
		})
	}
}

func TestScopeInfoFlagsFuncKind(t *testing.T) {
	raw := uint32(KindAsyncGeneratorFunction) << 0x0E
	f := NewScopeInfoFlags(raw)
	if f.Kind != KindAsyncGeneratorFunction {
		t.Errorf("Kind got %v, want KindAsyncGeneratorFunction", f.Kind)
	}
}
