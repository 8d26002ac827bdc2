// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import "fmt"

// Magic header values. 0xC0DE0BEE and 0xC0DE03BE mark the Ignition-era code
// cache this package decodes; 0xC0DE0628 is V8's modern context/startup
// snapshot format and is explicitly out of scope.
const (
	MagicIgnitionCache     uint32 = 0xC0DE0BEE
	MagicIgnitionCacheAlt  uint32 = 0xC0DE03BE
	MagicModernSnapshot    uint32 = 0xC0DE0628
)

// Header is the fixed-size prologue of a .jsc file, read before the
// reservation table and payload stream.
type Header struct {
	Magic          uint32
	VersionHash    uint32
	SourceHash     uint32
	CPUFeatures    uint32
	FlagsHash      uint32
	ReservCount    uint32
	CodeStubCount  uint32
	PayloadSize    uint32
	Checksum1      uint32
	Checksum2      uint32
	PayloadOffset  uint32
}

// Deserializer replays a .jsc payload stream against a set of reservation
// chunks, the way V8's own Deserializer replays a snapshot against freshly
// reserved heap pages. It is single-use: construct one per file.
type Deserializer struct {
	reader *BinaryReader

	is32Bit         bool
	pointerSizeLog2 uint32
	pointerSize     uint32

	attached []string
	builtins []string
	roots    []RootObject

	nextAlignment AllocationAlignment
	lastHotIndex  int
	hots          [8]HeapSlot

	lastChunkIndex map[AllocSpace]int
	reserv         map[AllocSpace][]*ReservObject
	codeStubs      []uint32

	header Header

	anomalies []string
	warn      warnFunc
}

// NewDeserializer prepares a Deserializer over data. roots and builtins
// should come from LoadRoots/LoadBuiltins (or their embedded defaults).
func NewDeserializer(data []byte, is32Bit bool, roots []RootObject, builtins []string, warn warnFunc) *Deserializer {
	pointerSizeLog2 := uint32(3)
	pointerSize := uint32(8)
	if is32Bit {
		pointerSizeLog2 = 2
		pointerSize = 4
	}
	return &Deserializer{
		reader:          NewBinaryReader(data),
		is32Bit:         is32Bit,
		pointerSizeLog2: pointerSizeLog2,
		pointerSize:     pointerSize,
		attached:        []string{"Source"},
		builtins:        builtins,
		roots:           roots,
		lastChunkIndex:  make(map[AllocSpace]int),
		reserv:          make(map[AllocSpace][]*ReservObject),
		warn:            warn,
	}
}

// Anomalies returns every soft-failure this deserializer recorded while
// walking the payload (unsupported control bytes, truncated data, ...).
func (d *Deserializer) Anomalies() []string { return d.anomalies }

func (d *Deserializer) addAnomaly(msg string) {
	d.anomalies = append(d.anomalies, msg)
	if d.warn != nil {
		d.warn("jscdump: %s", msg)
	}
}

func pointerSizeAlign(value, mask uint32) uint32 {
	return (value + mask) & ^mask
}

// Parse reads the header and reservation table, replays the payload stream
// starting from NEW_SPACE, drains the deferred-objects section, and returns
// every SharedFunctionInfo reachable from OLD_SPACE's script list.
func (d *Deserializer) Parse() ([]*ReservObject, error) {
	r := d.reader

	magic, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	d.header.Magic = magic
	switch magic {
	case MagicIgnitionCache, MagicIgnitionCacheAlt:
		// supported
	case MagicModernSnapshot:
		return nil, ErrUnsupportedSnapshotFormat
	default:
		return nil, ErrMagicNotFound
	}

	if d.header.VersionHash, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.header.SourceHash, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.header.CPUFeatures, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.header.FlagsHash, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.header.ReservCount, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	reservSize := d.header.ReservCount * 4
	if d.header.CodeStubCount, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	codeStubsSize := d.header.CodeStubCount * 4
	if d.header.PayloadSize, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.header.Checksum1, err = r.ReadUint32(); err != nil {
		return nil, err
	}
	if d.header.Checksum2, err = r.ReadUint32(); err != nil {
		return nil, err
	}

	mask := d.pointerSize - 1
	payloadOffset := pointerSizeAlign(r.Pos()+reservSize+codeStubsSize, mask)
	d.header.PayloadOffset = payloadOffset

	currSpace := 0
	for i := uint32(0); i < d.header.ReservCount; i++ {
		space, ok := allocSpaceFromInt(currSpace)
		if !ok {
			return nil, fmt.Errorf("%w: reservation space index %d", ErrOutsideBoundary, currSpace)
		}

		size, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		d.reserv[space] = append(d.reserv[space], NewReservObject(size&0x7FFFFFFF, d.pointerSize))
		d.lastChunkIndex[space] = 0

		if (size&0x80000000)>>0x1F != 0 {
			currSpace++
		}
	}

	for i := uint32(0); i < d.header.CodeStubCount; i++ {
		v, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		d.codeStubs = append(d.codeStubs, v)
	}

	r.Seek(payloadOffset)

	root := NewReservObject(d.pointerSize, d.pointerSize)
	if err := d.readData(root, root.Size(), NewSpace, 0); err != nil {
		return nil, err
	}
	if err := d.deserializeDeferredObjects(); err != nil {
		return nil, err
	}

	var results []*ReservObject
	for _, chunk := range d.reserv[OldSpace] {
		funcs := d.loadSpaceObjects(chunk)
		results = append(results, funcs...)
	}

	return results, nil
}

// loadSpaceObjects walks one OLD_SPACE reservation chunk's first object (the
// Context its Script hangs off of) down to the Script's shared_function_infos
// weak fixed array, returning every live SharedFunctionInfo.
func (d *Deserializer) loadSpaceObjects(chunk *ReservObject) []*ReservObject {
	first := chunk.GetAlignedObject(0)
	if first.Kind != SlotObject {
		return nil
	}

	ps := d.pointerSize
	scriptOffset := d.getScriptOffset()
	script := first.Object.GetAlignedObject(scriptOffset)
	if script.Kind != SlotObject {
		return nil
	}

	sharedFuncs := script.Object.GetAlignedObject(12 * ps)
	if sharedFuncs.Kind != SlotObject {
		return nil
	}

	arrayLengthOffset := ps
	arrayHeaderSize := arrayLengthOffset + ps

	count := sharedFuncs.Object.GetSmiInt(arrayLengthOffset)

	var functions []*ReservObject
	for i := int64(0); i < count; i++ {
		weak := sharedFuncs.Object.GetAlignedObject(arrayHeaderSize + uint32(i)*ps)
		if weak.Kind != SlotObject {
			continue
		}
		fn := weak.Object.GetAlignedObject(ps)
		if fn.Kind != SlotObject {
			continue
		}
		functions = append(functions, fn.Object)
	}
	return functions
}

// getScriptOffset computes the byte offset of JSFunction::kScriptOffset's
// SharedFunctionInfo counterpart by walking the same fixed field chain
// sfi.go's NewSharedFunctionInfo hard-codes for SharedFunctionInfo itself.
func (d *Deserializer) getScriptOffset() uint32 {
	ps := d.pointerSize
	kCodeOffset := ps
	kNameOffset := kCodeOffset + ps
	kScopeInfoOffset := kNameOffset + ps
	kOuterScopeInfoOffset := kScopeInfoOffset + ps
	kConstructStubOffset := kOuterScopeInfoOffset + ps
	kInstanceClassNameOffset := kConstructStubOffset + ps
	kFunctionDataOffset := kInstanceClassNameOffset + ps
	return kFunctionDataOffset + ps
}

// deserializeDeferredObjects drains the deferred-objects section that
// follows the root object: a run of (space-tagged back-reference, size,
// payload) triples terminated by kSynchronize.
func (d *Deserializer) deserializeDeferredObjects() error {
	for {
		b, err := d.reader.ReadByte()
		if err != nil {
			return err
		}

		switch {
		case b == 0x15 || b == 0x16 || b == 0x17: // kAlignmentPrefix
			align, ok := allocationAlignmentFromInt(int(b) - (0x15 - 1))
			if ok {
				d.nextAlignment = align
			}
		case b == 0x18: // kSynchronize
			return nil
		default:
			space, ok := allocSpaceFromInt(int(b) & 7)
			if !ok {
				return fmt.Errorf("%w: deferred object space byte 0x%02X", ErrOutsideBoundary, b)
			}
			backObj := d.getBackReferencedObject(space)

			sizeWord, err := d.readVarint()
			if err != nil {
				return err
			}
			size := sizeWord << d.pointerSizeLog2
			if backObj.Kind == SlotObject {
				if err := d.readData(backObj.Object, size, space, d.pointerSize); err != nil {
					return err
				}
			}
		}
	}
}

// readData is the main control-byte dispatch loop: it fills obj from
// startInsert up to size, trying every (where, how, within) combination a
// serializer can emit before falling back to the fixed set of standalone
// opcodes (raw data runs, repeats, root/hot-object references, skips, ...).
func (d *Deserializer) readData(obj *ReservObject, size uint32, space AllocSpace, startInsert uint32) error {
	insertOff := startInsert

	for insertOff < size {
		b, err := d.reader.ReadByte()
		if err != nil {
			return err
		}

		if off, ok, err := d.doAllSpaces(insertOff, b, obj, whereNewObject, howPlain, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doAllSpaces(insertOff, b, obj, whereNewObject, howFromCode, pointInnerPointer); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doAllSpaces(insertOff, b, obj, whereBackref, howPlain, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doAllSpaces(insertOff, b, obj, whereBackrefWithSkip, howPlain, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doAllSpaces(insertOff, b, obj, whereBackref, howFromCode, pointInnerPointer); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doAllSpaces(insertOff, b, obj, whereBackrefWithSkip, howFromCode, pointInnerPointer); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doNewSpace(insertOff, b, obj, whereRootArray, howPlain, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doNewSpace(insertOff, b, obj, whereExternalReference, howPlain, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doNewSpace(insertOff, b, obj, whereExternalReference, howFromCode, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doNewSpace(insertOff, b, obj, whereAttachedReference, howPlain, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doNewSpace(insertOff, b, obj, whereAttachedReference, howFromCode, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doNewSpace(insertOff, b, obj, whereAttachedReference, howFromCode, pointInnerPointer); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doNewSpace(insertOff, b, obj, whereBuiltin, howPlain, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}
		if off, ok, err := d.doNewSpace(insertOff, b, obj, whereBuiltin, howFromCode, pointStartOfObject); err != nil {
			return err
		} else if ok {
			insertOff = off
			continue
		}

		switch {
		case b == 0x0F: // kSkip
			n, err := d.readVarint()
			if err != nil {
				return err
			}
			insertOff += n
		case b == 0x1B || b == 0x1C: // kInternalReferenceEncoded, kInternalReference
			// unimplemented upstream; these never carry heap data.
		case b == 0x2F: // kNop
			return nil
		case b == 0x4F: // kNextChunk
			newChunk, err := d.reader.ReadByte()
			if err != nil {
				return err
			}
			d.lastChunkIndex[space] = int(newChunk)
		case b == 0x6F: // kDeferred
			insertOff = size
		case b == 0x18: // kSynchronize
		case b == 0x1A: // kVariableRawData
			n, err := d.readVarint()
			if err != nil {
				return err
			}
			raw, err := d.reader.ReadBytes(n)
			if err != nil {
				return err
			}
			obj.AddObject(insertOff, raw)
		case b == 0x19: // kVariableRepeat
			repeats, err := d.readVarint()
			if err != nil {
				return err
			}
			last := obj.GetLastObject()
			insertOff = d.repeatObject(obj, insertOff, last, int(repeats))
		case b == 0x15 || b == 0x16 || b == 0x17: // kAlignmentPrefix
			align, ok := allocationAlignmentFromInt(int(b) - (0x15 - 1))
			if ok {
				d.nextAlignment = align
			}
		case 0xA0 <= b && b <= 0xBF: // kRootArrayConstantsWithSkip, unimplemented upstream
			d.addAnomaly(fmt.Sprintf("%s: kRootArrayConstantsWithSkip (0x%02X)", AnoUnsupportedControlByte, b))
		case 0x80 <= b && b <= 0x9F: // kRootArrayConstants
			idx := int(b & 0x1F)
			if idx < len(d.roots) {
				obj.PutObject(insertOff, rootSlot(d.roots[idx]))
			}
			insertOff += d.pointerSize
		case 0x58 <= b && b <= 0x5F: // kHotObjectsWithSkip, unimplemented upstream
			d.addAnomaly(fmt.Sprintf("%s: kHotObjectsWithSkip (0x%02X)", AnoUnsupportedControlByte, b))
		case 0x38 <= b && b <= 0x3F: // kHotObject
			hot := d.hots[int(b&7)]
			obj.PutObject(insertOff, hot)
			insertOff += d.pointerSize
		case 0xC0 <= b && b <= 0xDF: // kFixedRawData
			n := uint32(b-(0xC0-1)) << d.pointerSizeLog2
			raw, err := d.reader.ReadBytes(n)
			if err != nil {
				return err
			}
			obj.AddObject(insertOff, raw)
			insertOff += n
		case 0xE0 <= b && b <= 0xEF: // kFixedRepeat
			repeats := int(b - (0xE0 - 1))
			last := obj.GetLastObject()
			insertOff = d.repeatObject(obj, insertOff, last, repeats)
		default:
			return &FormatError{Offset: d.reader.Pos() - 1, Byte: b, Msg: "unrecognized JSC control byte"}
		}
	}
	return nil
}

func (d *Deserializer) repeatObject(obj *ReservObject, insertOff uint32, last HeapSlot, count int) uint32 {
	for i := 0; i < count; i++ {
		obj.PutObject(insertOff, last)
		insertOff += d.pointerSize
	}
	return insertOff
}

func spaceFromState(s caseState) (AllocSpace, bool) {
	return allocSpaceFromInt(s.value - caseStatement(s))
}

func isNewSpaceState(s caseState) bool {
	space, ok := spaceFromState(s)
	return ok && space == NewSpace
}

// doAllSpaces probes one (where, how, within) combination across every
// space: the OLD/CODE/MAP/LO branch and the NEW_SPACE branch both resolve
// the same way once the combination matches, since the target space is
// always recovered from the control byte's low 3 bits.
func (d *Deserializer) doAllSpaces(insertOff uint32, val byte, obj *ReservObject, where allocWhere, how allocHow, within allocPoint) (uint32, bool, error) {
	state := caseState{value: int(val), where: where, how: how, within: within}
	if _, ok := spaceFromState(state); !ok {
		return insertOff, false, nil
	}
	off, err := d.readSpaceData(obj, insertOff, state)
	return off, true, err
}

// doNewSpace probes one (where, how, within) combination that is only valid
// when the control byte encodes NEW_SPACE.
func (d *Deserializer) doNewSpace(insertOff uint32, val byte, obj *ReservObject, where allocWhere, how allocHow, within allocPoint) (uint32, bool, error) {
	state := caseState{value: int(val), where: where, how: how, within: within}
	if !isNewSpaceState(state) {
		return insertOff, false, nil
	}
	off, err := d.readSpaceData(obj, insertOff, state)
	return off, true, err
}

// readSpaceData resolves a matched control byte into an actual heap value
// written at insertOff, then advances by one pointer width.
func (d *Deserializer) readSpaceData(obj *ReservObject, insertOff uint32, state caseState) (uint32, error) {
	space, _ := spaceFromState(state)
	where := state.where

	if where == whereNewObject && state.how == howPlain && state.within == pointStartOfObject {
		if err := d.readObject(obj, insertOff, space); err != nil {
			return insertOff, err
		}
	} else {
		switch where {
		case whereNewObject:
			// unimplemented upstream (from-code inner-pointer new objects)
		case whereBackref:
			backObj := d.getBackReferencedObject(space)
			obj.PutObject(insertOff, backObj)
		case whereBackrefWithSkip:
			// unimplemented upstream
		case whereRootArray:
			idx, err := d.readVarint()
			if err != nil {
				return insertOff, err
			}
			if int(idx) >= len(d.roots) {
				d.addAnomaly(fmt.Sprintf("%s: %d", AnoRootArrayIndexOutOfRange, idx))
				break
			}
			hot := rootSlot(d.roots[idx])
			d.hots[d.lastHotIndex] = hot
			d.lastHotIndex = (d.lastHotIndex + 1) & 7
			obj.PutObject(insertOff, hot)
		case wherePartialSnapshotCache:
			// unimplemented upstream
		case whereExternalReference:
			// unimplemented upstream
		case whereAttachedReference:
			idx, err := d.readVarint()
			if err != nil {
				return insertOff, err
			}
			if int(idx) < len(d.attached) {
				obj.PutObject(insertOff, stringSlot(d.attached[idx]))
			}
		case whereBuiltin:
			idx, err := d.readVarint()
			if err != nil {
				return insertOff, err
			}
			if int(idx) < len(d.builtins) {
				obj.PutObject(insertOff, stringSlot(d.builtins[idx]))
			}
		}
	}

	return insertOff + d.pointerSize, nil
}

// readObject allocates size bytes out of space's current chunk (applying
// any pending alignment filler first), recurses to fill it via readData,
// and wires the new ReservObject into obj at insertOff.
func (d *Deserializer) readObject(obj *ReservObject, insertOff uint32, space AllocSpace) error {
	sizeWord, err := d.readVarint()
	if err != nil {
		return err
	}
	size := sizeWord << d.pointerSizeLog2

	spaceChunk := d.lastChunkIndex[space]
	if d.nextAlignment != WordAligned {
		chunks := d.reserv[space]
		if spaceChunk < len(chunks) {
			reservObj := chunks[spaceChunk]
			address := reservObj.Offset()
			filler := d.maxFillToAlign()
			d.alignWithFiller(reservObj, address, size, filler)
			reservObj.SetOffset(address + filler)
		}
		d.nextAlignment = WordAligned
	}

	chunks := d.reserv[space]
	if spaceChunk >= len(chunks) {
		return nil
	}

	reservObj := chunks[spaceChunk]
	address := reservObj.Offset()
	reservObj.SetOffset(address + size)

	newObj := NewReservObject(size, d.pointerSize)
	reservObj.PutObject(address, objectSlot(newObj))

	if err := d.readData(newObj, size, space, 0); err != nil {
		return err
	}
	obj.PutObject(insertOff, objectSlot(newObj))
	return nil
}
