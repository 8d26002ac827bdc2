// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestJSRuntimeName(t *testing.T) {

	names := []string{"math_pow", "array_push"}

	tests := []struct {
		name string
		idx  int
		want string
	}{
		{"first entry", 0, "math_pow"},
		{"second entry", 1, "array_push"},
		{"negative index", -1, ""},
		{"out of range", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jsRuntimeName(tt.idx, names); got != tt.want {
				t.Errorf("jsRuntimeName(%d) got %q, want %q", tt.idx, got, tt.want)
			}
		})
	}
}

func TestJSRuntimeStaticAndMethodTablesLookup(t *testing.T) {
	if got := jsRuntimeStatic["math_pow"]; got != "Math.pow" {
		t.Errorf("jsRuntimeStatic[\"math_pow\"] got %q, want \"Math.pow\"", got)
	}
	if got := jsRuntimeMethod["array_push"]; got != "push" {
		t.Errorf("jsRuntimeMethod[\"array_push\"] got %q, want \"push\"", got)
	}
}
