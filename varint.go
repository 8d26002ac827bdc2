// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

// readVarint decodes one of V8's serializer varints: a uint32 whose low two
// bits give the encoded width in bytes (1-4), with the actual value living
// in the remaining bits, shifted left by 2. The cursor only advances by the
// encoded width rather than the full 4 bytes the initial peek read.
func (d *Deserializer) readVarint() (uint32, error) {
	start := d.reader.Pos()
	answer, err := d.reader.ReadUint32()
	if err != nil {
		return 0, err
	}
	bytesCount := (answer & 3) + 1
	d.reader.Seek(start + bytesCount)
	mask := uint32(0xFFFFFFFF) >> (32 - (bytesCount << 3))
	answer &= mask
	answer >>= 2
	return answer, nil
}
