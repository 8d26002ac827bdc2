// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestBinaryReaderReadUint32(t *testing.T) {
	r := NewBinaryReader([]byte{0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00})

	v, err := r.ReadUint32()
	if err != nil || v != 1 {
		t.Fatalf("ReadUint32() got (%d, %v), want (1, nil)", v, err)
	}
	if r.Pos() != 4 {
		t.Errorf("Pos() got %d, want 4", r.Pos())
	}

	v, err = r.ReadUint32()
	if err != nil || v != 2 {
		t.Fatalf("ReadUint32() got (%d, %v), want (2, nil)", v, err)
	}

	if _, err := r.ReadUint32(); err != ErrOutsideBoundary {
		t.Errorf("ReadUint32() past the end got %v, want ErrOutsideBoundary", err)
	}
}

func TestBinaryReaderReadByteAndBytes(t *testing.T) {
	r := NewBinaryReader([]byte{0xAA, 0xBB, 0xCC})

	b, err := r.ReadByte()
	if err != nil || b != 0xAA {
		t.Fatalf("ReadByte() got (%x, %v), want (0xAA, nil)", b, err)
	}

	rest, err := r.ReadBytes(2)
	if err != nil || len(rest) != 2 || rest[0] != 0xBB || rest[1] != 0xCC {
		t.Fatalf("ReadBytes(2) got (%v, %v), want ([0xBB 0xCC], nil)", rest, err)
	}

	if _, err := r.ReadByte(); err != ErrOutsideBoundary {
		t.Errorf("ReadByte() past the end got %v, want ErrOutsideBoundary", err)
	}
}

func TestBinaryReaderSeekAndRemaining(t *testing.T) {
	r := NewBinaryReader(make([]byte, 10))
	if r.Remaining() != 10 {
		t.Errorf("Remaining() got %d, want 10", r.Remaining())
	}
	r.Seek(4)
	if r.Remaining() != 6 {
		t.Errorf("Remaining() after Seek(4) got %d, want 6", r.Remaining())
	}
}

func TestReadUint32At(t *testing.T) {
	data := []byte{0x00, 0x00, 0x04, 0x00, 0x00, 0x00}
	v, err := ReadUint32At(data, 2)
	if err != nil || v != 4 {
		t.Fatalf("ReadUint32At(2) got (%d, %v), want (4, nil)", v, err)
	}
	if _, err := ReadUint32At(data, 4); err != ErrOutsideBoundary {
		t.Errorf("ReadUint32At(4) got %v, want ErrOutsideBoundary", err)
	}
}

func TestReadUint16At(t *testing.T) {
	data := []byte{0x00, 0x2A, 0x00}
	v, err := ReadUint16At(data, 1)
	if err != nil || v != 0x002A {
		t.Fatalf("ReadUint16At(1) got (%d, %v), want (0x2A, nil)", v, err)
	}
}

func TestStringInSlice(t *testing.T) {
	list := []string{"a", "b", "c"}
	if !stringInSlice("b", list) {
		t.Errorf("stringInSlice(b) got false, want true")
	}
	if stringInSlice("z", list) {
		t.Errorf("stringInSlice(z) got true, want false")
	}
}
