// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

// maxFillToAlign is the largest possible filler a pending alignment prefix
// could require: nothing for word alignment, otherwise the gap between a
// pointer-sized and a double-sized slot.
func (d *Deserializer) maxFillToAlign() uint32 {
	switch d.nextAlignment {
	case DoubleAligned, DoubleUnaligned:
		return 8 - d.pointerSize
	default:
		return 0
	}
}

// fillToAlign is the filler actually needed to land address on an 8-byte
// boundary, given the pending alignment prefix.
func (d *Deserializer) fillToAlign(address uint32) uint32 {
	if d.nextAlignment == DoubleAligned && address&7 != 0 {
		return d.pointerSize
	}
	if d.nextAlignment == DoubleUnaligned && address&7 != 0 {
		return 8 - d.pointerSize
	}
	return 0
}

// createFillerObject drops a one-word, two-word, or free-space filler map
// root into obj at address, matching V8's Heap::CreateFillerObjectAt.
func (d *Deserializer) createFillerObject(obj *ReservObject, address, size uint32) {
	switch {
	case size == 0:
		obj.PutObject(address, HeapSlot{})
	case size == d.pointerSize:
		if len(d.roots) > 1 {
			obj.PutObject(address, rootSlot(d.roots[1]))
		} else {
			obj.PutObject(address, HeapSlot{})
		}
	case size == 2*d.pointerSize:
		if len(d.roots) > 2 {
			obj.PutObject(address, rootSlot(d.roots[2]))
		} else {
			obj.PutObject(address, HeapSlot{})
		}
	default:
		if len(d.roots) > 0 {
			obj.PutObject(address, rootSlot(d.roots[0]))
		} else {
			obj.PutObject(address, HeapSlot{})
		}
	}
}

func (d *Deserializer) precedeWithFiller(obj *ReservObject, address, size uint32) uint32 {
	d.createFillerObject(obj, address, size)
	return address + size
}

// alignWithFiller pads address up to the next double-word boundary (if the
// pending alignment prefix calls for it) and then fills the remainder of
// fillerSize after the real object, so the chunk's free-space accounting
// stays exact even though jscdump never allocates real memory for it.
func (d *Deserializer) alignWithFiller(obj *ReservObject, address, objectSize, fillerSize uint32) {
	pre := d.fillToAlign(address)
	if pre != 0 {
		address = d.precedeWithFiller(obj, address, pre)
		fillerSize -= pre
	}
	if fillerSize != 0 {
		d.createFillerObject(obj, address+objectSize, fillerSize)
	}
}
