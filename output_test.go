// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestIsWrapperFunction(t *testing.T) {

	tests := []struct {
		name string
		sfi  *SharedFunctionInfo
		want bool
	}{
		{
			name: "no scope info",
			sfi:  &SharedFunctionInfo{},
			want: false,
		},
		{
			name: "script scope",
			sfi:  &SharedFunctionInfo{ScopeInfo: &ScopeInfo{Flags: ScopeInfoFlags{Scope: ScriptScope}}},
			want: true,
		},
		{
			name: "commonjs module wrapper params",
			sfi: &SharedFunctionInfo{ScopeInfo: &ScopeInfo{
				Flags:  ScopeInfoFlags{Scope: FunctionScope},
				Params: []string{"exports", "require", "module", "__filename", "__dirname"},
			}},
			want: true,
		},
		{
			name: "ordinary function",
			sfi: &SharedFunctionInfo{ScopeInfo: &ScopeInfo{
				Flags:  ScopeInfoFlags{Scope: FunctionScope},
				Params: []string{"a", "b"},
			}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWrapperFunction(tt.sfi); got != tt.want {
				t.Errorf("isWrapperFunction() got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatTextIncludesFunctionHeader(t *testing.T) {
	fn := &SharedFunctionInfo{
		Name:                 "foo",
		FunctionLiteralID:    1,
		FormalParameterCount: 2,
		ScopeInfo:            &ScopeInfo{Flags: ScopeInfoFlags{Scope: FunctionScope}, Params: []string{"a", "b"}},
	}

	out := FormatText("9.0.257.25", false, []*SharedFunctionInfo{fn}, false)
	if !strings.Contains(out, "function foo  (literal id 1)") {
		t.Errorf("FormatText() missing function header, got:\n%s", out)
	}
	if !strings.Contains(out, "V8 version: 9.0.257.25 (64-bit)") {
		t.Errorf("FormatText() missing version header, got:\n%s", out)
	}
}

func TestFormatJSSkipsWrapperFunctions(t *testing.T) {
	wrapper := &SharedFunctionInfo{Name: "wrapper", ScopeInfo: &ScopeInfo{Flags: ScopeInfoFlags{Scope: ScriptScope}}}
	real := &SharedFunctionInfo{Name: "doStuff", ScopeInfo: &ScopeInfo{Flags: ScopeInfoFlags{Scope: FunctionScope}}}

	out := FormatJS("9.0.257.25", false, []*SharedFunctionInfo{wrapper, real}, "test.jsc", nil)
	if strings.Contains(out, "function wrapper(") {
		t.Errorf("FormatJS() emitted the script-scope wrapper, got:\n%s", out)
	}
	if !strings.Contains(out, "function doStuff(") {
		t.Errorf("FormatJS() missing the real function, got:\n%s", out)
	}
}

func TestFormatJSONStructure(t *testing.T) {
	fn := &SharedFunctionInfo{
		Name:                 "foo",
		FunctionLiteralID:    7,
		FormalParameterCount: 1,
		ScopeInfo:            &ScopeInfo{Flags: ScopeInfoFlags{Scope: FunctionScope}, Params: []string{"x"}},
		Bytecode: &BytecodeData{
			Bytecode:     []byte{0x02, 0x95}, // LdaZero; Return
			ConstantPool: &ConstantPool{},
		},
	}

	out, err := FormatJSON("9.0.257.25", true, []*SharedFunctionInfo{fn})
	if err != nil {
		t.Fatalf("FormatJSON() failed, reason: %v", err)
	}

	var report jsonReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("FormatJSON() produced invalid JSON: %v", err)
	}

	if report.Architecture != "ia32" {
		t.Errorf("Architecture got %q, want \"ia32\"", report.Architecture)
	}
	if len(report.Functions) != 1 {
		t.Fatalf("Functions got %d entries, want 1", len(report.Functions))
	}
	got := report.Functions[0]
	if got.Name != "foo" || got.ID != 7 {
		t.Errorf("Functions[0] got name=%q id=%d, want name=foo id=7", got.Name, got.ID)
	}
	if len(got.Bytecode) != 2 {
		t.Errorf("Functions[0].Bytecode got %d instructions, want 2", len(got.Bytecode))
	}
}
