// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "testing"

func TestReadVarint(t *testing.T) {

	tests := []struct {
		name string
		data []byte
		want uint32
		pos  uint32
	}{
		// low 2 bits = 0 -> 1 byte encoded, value in the remaining 6 bits.
		{"one byte", []byte{0x04, 0xFF, 0xFF, 0xFF}, 1, 1},
		// low 2 bits = 1 -> 2 bytes encoded.
		{"two bytes", []byte{0x01, 0x01, 0xFF, 0xFF}, 64, 2},
		// low 2 bits = 3 -> 4 bytes encoded, full width used.
		{"four bytes", []byte{0xFF, 0xFF, 0xFF, 0x3F}, 0x0FFFFFFF, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDeserializer(tt.data, false, nil, nil, func(string, ...interface{}) {})
			got, err := d.readVarint()
			if err != nil {
				t.Fatalf("readVarint() failed, reason: %v", err)
			}
			if got != tt.want {
				t.Errorf("readVarint() got %d, want %d", got, tt.want)
			}
			if d.reader.Pos() != tt.pos {
				t.Errorf("readVarint() cursor at %d, want %d", d.reader.Pos(), tt.pos)
			}
		})
	}
}

func TestReadVarintTruncated(t *testing.T) {
	d := NewDeserializer([]byte{0x01}, false, nil, nil, func(string, ...interface{}) {})
	if _, err := d.readVarint(); err == nil {
		t.Errorf("readVarint() on truncated input succeeded, want error")
	}
}
