// Package arena implements the flat growable byte buffer that backs every
// stored value, together with the cursor type used to address one value
// inside it.
//
// Values are addressed by logical offsets into the buffer, never by raw
// memory addresses, so the backing slice may be reallocated freely without
// invalidating outstanding cursors. Offset 0 is reserved: a pointer slot
// holding 0 means "no value stored here".
package arena

import (
	"encoding/binary"
	"errors"
	"math"
)

const (
	// PtrSize is the width of a pointer slot: a big-endian uint32 offset.
	PtrSize = 4

	// RootPtr is the offset of the root pointer slot. The two bytes below
	// it are reserved padding so that no value can ever live at offset 0.
	RootPtr uint32 = 2

	// BaseSize is the footprint of an empty buffer: the reserved padding
	// plus the root pointer slot.
	BaseSize = int(RootPtr) + PtrSize
)

// ErrOutOfSpace is returned when an allocation would push the buffer past
// the 4-byte offset space.
var ErrOutOfSpace = errors.New("arena: offset space exhausted")

// Arena is an append-only byte buffer. Existing bytes are only ever
// overwritten in place through Write; they are never moved or reclaimed.
// An Arena is not safe for concurrent mutation.
type Arena struct {
	buf []byte
}

// New returns an empty arena with room for capacity bytes.
func New(capacity int) *Arena {
	if capacity < BaseSize {
		capacity = BaseSize
	}
	return &Arena{buf: make([]byte, BaseSize, capacity)}
}

// FromBytes wraps an existing buffer, taking ownership of data. Buffers
// shorter than the base footprint are replaced by an empty arena.
func FromBytes(data []byte) *Arena {
	if len(data) < BaseSize {
		return New(0)
	}
	return &Arena{buf: data}
}

// MallocBorrow appends b to the buffer and returns the offset at which it
// now lives.
func (a *Arena) MallocBorrow(b []byte) (uint32, error) {
	addr := len(a.buf)
	if addr+len(b) > math.MaxUint32 {
		return 0, ErrOutOfSpace
	}
	a.buf = append(a.buf, b...)
	return uint32(addr), nil
}

// Len returns the current buffer size in bytes.
func (a *Arena) Len() int {
	return len(a.buf)
}

// Bytes returns the underlying buffer. The slice is only valid until the
// next allocation.
func (a *Arena) Bytes() []byte {
	return a.buf
}

// ReadPtr returns the offset stored in the pointer slot at slot, or 0 if
// the slot is empty or out of range.
func (a *Arena) ReadPtr(slot uint32) uint32 {
	if int(slot)+PtrSize > len(a.buf) {
		return 0
	}
	return binary.BigEndian.Uint32(a.buf[slot:])
}

// WritePtr stores addr into the pointer slot at slot. Out-of-range slots
// are ignored.
func (a *Arena) WritePtr(slot uint32, addr uint32) {
	if int(slot)+PtrSize > len(a.buf) {
		return
	}
	binary.BigEndian.PutUint32(a.buf[slot:], addr)
}

// Read returns the n bytes starting at addr, or nil if the range falls
// outside the buffer. The slice aliases the buffer and is only valid until
// the next allocation.
func (a *Arena) Read(addr uint32, n int) []byte {
	if int(addr)+n > len(a.buf) {
		return nil
	}
	return a.buf[addr : int(addr)+n]
}

// Write overwrites the bytes at addr in place. Out-of-range writes are
// ignored; the arena never grows through Write.
func (a *Arena) Write(addr uint32, b []byte) {
	if int(addr)+len(b) > len(a.buf) {
		return
	}
	copy(a.buf[addr:], b)
}
