// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "encoding/binary"

// BinaryReader is a cursor over the raw bytes of a .jsc file; reads move it
// forward and Seek can move it anywhere (readVarint uses Seek to rewind).
// It mirrors the boundary-checked accessors the rest of the package expects,
// with a running position the deserializer advances as it consumes the
// reservation table and payload stream.
type BinaryReader struct {
	data []byte
	pos  uint32
}

// NewBinaryReader wraps data for sequential reading starting at offset 0.
func NewBinaryReader(data []byte) *BinaryReader {
	return &BinaryReader{data: data}
}

// Pos returns the current read position.
func (r *BinaryReader) Pos() uint32 { return r.pos }

// Seek moves the cursor to an absolute offset.
func (r *BinaryReader) Seek(pos uint32) { r.pos = pos }

// Remaining returns the number of unread bytes.
func (r *BinaryReader) Remaining() int { return len(r.data) - int(r.pos) }

// Bytes returns the full underlying buffer.
func (r *BinaryReader) Bytes() []byte { return r.data }

// ReadUint32 reads a little-endian uint32 and advances the cursor.
func (r *BinaryReader) ReadUint32() (uint32, error) {
	if r.pos+4 > uint32(len(r.data)) {
		return 0, ErrOutsideBoundary
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadByte reads a single byte and advances the cursor.
func (r *BinaryReader) ReadByte() (byte, error) {
	if r.pos >= uint32(len(r.data)) {
		return 0, ErrOutsideBoundary
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads count bytes and advances the cursor.
func (r *BinaryReader) ReadBytes(count uint32) ([]byte, error) {
	if r.pos+count > uint32(len(r.data)) {
		return nil, ErrOutsideBoundary
	}
	b := r.data[r.pos : r.pos+count]
	r.pos += count
	return b, nil
}

// ReadUint16At reads a little-endian uint16 at a fixed offset without
// disturbing the cursor. The bytecode disassembler does not use it; it
// decodes operands with its own readLittleEndianOperand.
func ReadUint16At(data []byte, offset uint32) (uint16, error) {
	if offset+2 > uint32(len(data)) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint16(data[offset:]), nil
}

// ReadUint32At reads a little-endian uint32 at a fixed offset.
func ReadUint32At(data []byte, offset uint32) (uint32, error) {
	if offset+4 > uint32(len(data)) {
		return 0, ErrOutsideBoundary
	}
	return binary.LittleEndian.Uint32(data[offset:]), nil
}

// stringInSlice reports whether a exists in list.
func stringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}
