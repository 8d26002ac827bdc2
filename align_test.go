// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func newTestDeserializer(is32Bit bool) *Deserializer {
	return NewDeserializer(nil, is32Bit, nil, nil, func(string, ...interface{}) {})
}

func TestMaxFillToAlign(t *testing.T) {

	tests := []struct {
		name    string
		is32Bit bool
		align   AllocationAlignment
		want    uint32
	}{
		{"word aligned 64-bit", false, WordAligned, 0},
		{"double aligned 64-bit", false, DoubleAligned, 0},
		{"double aligned 32-bit", true, DoubleAligned, 4},
		{"double unaligned 32-bit", true, DoubleUnaligned, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeserializer(tt.is32Bit)
			d.nextAlignment = tt.align
			if got := d.maxFillToAlign(); got != tt.want {
				t.Errorf("maxFillToAlign() got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFillToAlign(t *testing.T) {

	tests := []struct {
		name    string
		is32Bit bool
		align   AllocationAlignment
		address uint32
		want    uint32
	}{
		{"word aligned, misaligned address", false, WordAligned, 12, 0},
		{"double aligned, already on boundary", false, DoubleAligned, 16, 0},
		{"double aligned, misaligned 64-bit", false, DoubleAligned, 12, 8},
		{"double unaligned, misaligned 32-bit", true, DoubleUnaligned, 12, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newTestDeserializer(tt.is32Bit)
			d.nextAlignment = tt.align
			if got := d.fillToAlign(tt.address); got != tt.want {
				t.Errorf("fillToAlign(%d) got %d, want %d", tt.address, got, tt.want)
			}
		})
	}
}

func TestAlignWithFillerPadsAndTrailers(t *testing.T) {
	d := newTestDeserializer(false)
	d.nextAlignment = DoubleAligned
	d.roots = []RootObject{{Name: "r0"}, {Name: "r1"}, {Name: "r2"}}

	obj := NewReservObject(64, 8)
	// address 12 gets 8 bytes of prefix filler on a 64-bit build
	// (fillToAlign returns pointerSize here), moving the object to 20; the
	// remaining 16 bytes become a trailing two-word filler at 36.
	d.alignWithFiller(obj, 12, 16, 24)

	got := obj.GetLastObject()
	if got.Kind != SlotRoot || got.Root.Name != "r2" {
		t.Errorf("alignWithFiller() trailing filler got %+v, want the 2-pointer-word root filler", got)
	}
}
