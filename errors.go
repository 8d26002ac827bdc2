// Copyright 2018 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package jscdump

import (
	"errors"
	"fmt"
)

// Errors returned by the snapshot deserializer. These are fatal: the caller
// cannot make progress once one of these is returned.
var (
	// ErrTooSmall is returned when the input is smaller than a bare header.
	ErrTooSmall = errors.New("not a JSC file, smaller than the snapshot header")

	// ErrMagicNotFound is returned when the leading magic dword is not a
	// recognized V8 code-cache magic.
	ErrMagicNotFound = errors.New("JSC magic not found")

	// ErrUnsupportedSnapshotFormat is returned for the modern
	// context-independent snapshot format, which is out of scope.
	ErrUnsupportedSnapshotFormat = errors.New("unsupported JSC magic 0xC0DE0628 (modern context-independent snapshot format)")

	// ErrOutsideBoundary is reported when attempting to read data beyond the
	// bounds of the input buffer.
	ErrOutsideBoundary = errors.New("reading data outside boundary")

	// ErrNoOldSpace is returned when deserialization recovers no
	// SharedFunctionInfo objects at all (for example because the reservation
	// table has no OLD_SPACE chunks).
	ErrNoOldSpace = errors.New("no OLD_SPACE reservation chunks found")
)

// FormatError is returned for malformed deserializer control bytes, where
// the offending byte and stream position are useful to the caller.
type FormatError struct {
	Offset uint32
	Byte   byte
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: byte 0x%02X at offset 0x%X", e.Msg, e.Byte, e.Offset)
}
