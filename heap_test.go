// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestReservObjectAddAndGetInt(t *testing.T) {
	obj := NewReservObject(16, 8)
	obj.AddObject(0, []byte{0x2A, 0x00, 0x00, 0x00, 0x2B, 0x00, 0x00, 0x00})

	if got := obj.GetInt(0); got != 0x2A {
		t.Errorf("GetInt(0) got %d, want 42", got)
	}
	if got := obj.GetInt(4); got != 0x2B {
		t.Errorf("GetInt(4) got %d, want 43", got)
	}
	if got := obj.GetLastObject(); got.Kind != SlotInt || got.Int != 0x2A {
		t.Errorf("GetLastObject() got %+v, want the slot at the write address (0x2A)", got)
	}
}

func TestReservObjectGetIntMissingSlot(t *testing.T) {
	obj := NewReservObject(16, 8)
	if got := obj.GetInt(100); got != 0 {
		t.Errorf("GetInt(unwritten) got %d, want 0", got)
	}
}

func TestReservObjectGetAlignedObject64BitFoldsHighWord(t *testing.T) {
	obj := NewReservObject(16, 8)
	obj.PutObject(0, intSlot(0x11111111))
	obj.PutObject(4, intSlot(0x22222222))

	got := obj.GetAlignedObject(0)
	if got.Kind != SlotInt || got.Int != 0x22222222 {
		t.Errorf("GetAlignedObject(0) on 64-bit got %+v, want the high dword (0x22222222)", got)
	}
}

func TestReservObjectGetAlignedObject32BitNoFold(t *testing.T) {
	obj := NewReservObject(16, 4)
	obj.PutObject(0, intSlot(0x11111111))
	obj.PutObject(4, intSlot(0x22222222))

	got := obj.GetAlignedObject(0)
	if got.Kind != SlotInt || got.Int != 0x11111111 {
		t.Errorf("GetAlignedObject(0) on 32-bit got %+v, want the low dword unchanged", got)
	}
}

func TestReservObjectGetAlignedObjectPassesThroughNonInt(t *testing.T) {
	obj := NewReservObject(16, 8)
	root := RootObject{Name: "undefined_value"}
	obj.PutObject(0, rootSlot(root))

	got := obj.GetAlignedObject(0)
	if got.Kind != SlotRoot || got.Root.Name != "undefined_value" {
		t.Errorf("GetAlignedObject(0) got %+v, want the root slot untouched", got)
	}
}

func TestSmiToInt(t *testing.T) {

	tests := []struct {
		name        string
		value       uint64
		pointerSize uint32
		want        int64
	}{
		{"32-bit tagged 21", 42, 4, 21}, // 42 >> 1 == 21, low tag bit 0
		{"64-bit high word 7", uint64(7) << 32, 8, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := smiToInt(tt.value, tt.pointerSize); got != tt.want {
				t.Errorf("smiToInt(%d, %d) got %d, want %d", tt.value, tt.pointerSize, got, tt.want)
			}
		})
	}
}

func TestReservObjectGetSmiInt(t *testing.T) {
	obj := NewReservObject(16, 8)
	// 64-bit Smis store their payload in the dword immediately after offset.
	obj.PutObject(4, intSlot(99))

	if got := obj.GetSmiInt(0); got != 99 {
		t.Errorf("GetSmiInt(0) on 64-bit got %d, want 99", got)
	}
}

func TestReservObjectString(t *testing.T) {
	obj := NewReservObject(16, 8)
	obj.PutObject(0, intSlot(5))
	obj.PutObject(4, rootSlot(RootObject{Name: "the_hole"}))

	out := obj.String()
	if out == "" {
		t.Errorf("String() got empty output for a populated object")
	}
}
