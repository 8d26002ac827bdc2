// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestWrapLeft(t *testing.T) {

	tests := []struct {
		name    string
		acc     string
		accPrec int
		opPrec  int
		want    string
	}{
		{"looser left needs parens", "a + b", precAdd, precMul, "(a + b)"},
		{"tighter left stays bare", "a * b", precMul, precAdd, "a * b"},
		{"equal precedence stays bare", "a + b", precAdd, precAdd, "a + b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapLeft(tt.acc, tt.accPrec, tt.opPrec); got != tt.want {
				t.Errorf("wrapLeft(%q, %d, %d) got %q, want %q", tt.acc, tt.accPrec, tt.opPrec, got, tt.want)
			}
		})
	}
}

func TestWrapRight(t *testing.T) {

	tests := []struct {
		name    string
		acc     string
		accPrec int
		opPrec  int
		opStr   string
		want    string
	}{
		{"looser right needs parens", "a + b", precAdd, precMul, "*", "(a + b)"},
		{"same precedence, right-assoc-safe op stays bare", "a + b", precAdd, precAdd, "+", "a + b"},
		{"same precedence, non-associative op needs parens", "a - b", precAdd, precAdd, "-", "(a - b)"},
		{"tighter right stays bare", "a * b", precMul, precAdd, "+", "a * b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapRight(tt.acc, tt.accPrec, tt.opPrec, tt.opStr); got != tt.want {
				t.Errorf("wrapRight(%q, %d, %d, %q) got %q, want %q", tt.acc, tt.accPrec, tt.opPrec, tt.opStr, got, tt.want)
			}
		})
	}
}
