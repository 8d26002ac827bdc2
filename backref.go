// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "fmt"

// getBackReferencedObject decodes a back-reference varint into a
// (chunk index, chunk offset) pair and resolves it against the already
// reserved chunks for space, recording the result in the hot-object ring so
// a following kHotObject byte can reuse it cheaply.
//
// LO_SPACE and MAP_SPACE back-references are unimplemented upstream in the
// Ignition-era serializer this format targets; jscdump reports them as
// anomalies rather than failing the whole parse.
func (d *Deserializer) getBackReferencedObject(space AllocSpace) HeapSlot {
	backRef, err := d.readVarint()
	if err != nil {
		return HeapSlot{}
	}

	if space == LoSpace || space == MapSpace {
		d.addAnomaly(fmt.Sprintf("back-reference into %s is unsupported, dropping reference", space))
		return HeapSlot{}
	}

	var chunkIndex, chunkOffset uint32
	if d.is32Bit {
		chunkIndex = (backRef & 0x1FFE0000) >> 0x11
		chunkOffset = (backRef & 0x1FFFF) << d.pointerSizeLog2
	} else {
		chunkIndex = (backRef & 0x1FFF0000) >> 0x10
		chunkOffset = (backRef & 0xFFFF) << d.pointerSizeLog2
	}

	chunks := d.reserv[space]
	if int(chunkIndex) >= len(chunks) {
		return HeapSlot{}
	}

	reservObj := chunks[chunkIndex]
	backObj := reservObj.GetAlignedObject(chunkOffset)
	d.hots[d.lastHotIndex] = backObj
	d.lastHotIndex = (d.lastHotIndex + 1) & 7
	return backObj
}
