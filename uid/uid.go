// Package uid implements the 16-byte UUID value stored by ptrbuf buffers.
//
// A UUID here is an opaque 16-byte payload; equality is byte-wise and the
// only structure is the canonical dashed-hex rendering. Generation always
// goes through an explicit randomness source supplied by the caller, so
// tests can feed deterministic bytes instead of relying on ambient global
// state.
package uid

import (
	"fmt"
	"io"
	"strings"

	guuid "github.com/google/uuid"
)

// UUID is an opaque 16-byte identifier.
type UUID [16]byte

// Nil is the zero UUID.
var Nil UUID

const hexUpper = "0123456789ABCDEF"

// New generates a UUID by reading 16 bytes from r and stamping the version
// nibble. Supply crypto/rand.Reader in production and a fixed-byte reader
// in tests.
func New(r io.Reader) (UUID, error) {
	var u UUID
	if _, err := io.ReadFull(r, u[:]); err != nil {
		return Nil, fmt.Errorf("uid: read random bytes: %w", err)
	}
	u[6] = 0x40 | (u[6] & 0x0f)
	return u, nil
}

// NewRandom generates a version 4 UUID from crypto-grade randomness.
func NewRandom() (UUID, error) {
	g, err := guuid.NewRandom()
	if err != nil {
		return Nil, fmt.Errorf("uid: %w", err)
	}
	return UUID(g), nil
}

// FromGoogle converts a github.com/google/uuid value.
func FromGoogle(g guuid.UUID) UUID {
	return UUID(g)
}

// Google converts the UUID for use with github.com/google/uuid.
func (u UUID) Google() guuid.UUID {
	return guuid.UUID(u)
}

// FromString parses a dashed or plain hex rendering, case-insensitively.
// Malformed hex pairs are skipped and leave zero bytes behind; a short
// input yields a UUID padded with zeros.
func FromString(s string) UUID {
	cleaned := strings.ToUpper(strings.ReplaceAll(s, "-", ""))

	var u UUID
	for x := 0; x < len(u); x++ {
		step := x * 2
		if step+2 > len(cleaned) {
			break
		}
		hi := strings.IndexByte(hexUpper, cleaned[step])
		lo := strings.IndexByte(hexUpper, cleaned[step+1])
		if hi < 0 || lo < 0 {
			continue
		}
		u[x] = byte(hi<<4 | lo)
	}
	return u
}

// String renders the UUID in the canonical dashed 8-4-4-4-12 form using
// uppercase hex, e.g. "48E6AAB0-7DF5-409F-4D57-4D969FA065EE".
func (u UUID) String() string {
	var b strings.Builder
	b.Grow(36)
	for x := 0; x < len(u); x++ {
		if x == 4 || x == 6 || x == 8 || x == 10 {
			b.WriteByte('-')
		}
		b.WriteByte(hexUpper[u[x]>>4])
		b.WriteByte(hexUpper[u[x]&0x0f])
	}
	return b.String()
}

// IsZero reports whether the UUID is all zero bytes.
func (u UUID) IsZero() bool {
	return u == Nil
}
