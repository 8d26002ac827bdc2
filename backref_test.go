// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestGetBackReferencedObjectResolves(t *testing.T) {
	// chunkIndex=0, chunkOffset=8 (pointerSizeLog2=3 on 64-bit): the decoded
	// varint value must be 1, so (chunkOffset=1<<3 with the low 16 bits
	// holding it) -> value=1 encoded as a 1-byte varint (4 = 1<<2).
	raw := uint32(4)
	d := NewDeserializer([]byte{byte(raw), byte(raw >> 8), byte(raw >> 16), byte(raw >> 24)}, false, nil, nil, func(string, ...interface{}) {})

	chunk := NewReservObject(64, 8)
	chunk.PutObject(8, intSlot(42))
	d.reserv[NewSpace] = []*ReservObject{chunk}

	got := d.getBackReferencedObject(NewSpace)
	if got.Kind != SlotInt || got.Int != 42 {
		t.Errorf("getBackReferencedObject() got %+v, want int slot 42", got)
	}

	if d.hots[0].Int != 42 {
		t.Errorf("getBackReferencedObject() did not record the hot-object cache entry")
	}
	if d.lastHotIndex != 1 {
		t.Errorf("getBackReferencedObject() lastHotIndex got %d, want 1", d.lastHotIndex)
	}
}

func TestGetBackReferencedObjectUnsupportedSpace(t *testing.T) {
	d := NewDeserializer([]byte{0x04, 0x00, 0x00, 0x00}, false, nil, nil, func(string, ...interface{}) {})

	got := d.getBackReferencedObject(MapSpace)
	if got != (HeapSlot{}) {
		t.Errorf("getBackReferencedObject(MapSpace) got %+v, want zero slot", got)
	}
	if len(d.Anomalies()) != 1 {
		t.Errorf("getBackReferencedObject(MapSpace) recorded %d anomalies, want 1", len(d.Anomalies()))
	}
}

func TestGetBackReferencedObjectOutOfRangeChunk(t *testing.T) {
	d := NewDeserializer([]byte{0xFF, 0xFF, 0xFF, 0x7F}, false, nil, nil, func(string, ...interface{}) {})
	got := d.getBackReferencedObject(NewSpace)
	if got != (HeapSlot{}) {
		t.Errorf("getBackReferencedObject() with no reserved chunks got %+v, want zero slot", got)
	}
}
