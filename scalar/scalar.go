// Package scalar implements the typed value codecs: for every scalar type
// the engine supports, how it reads and writes itself at an arbitrary
// arena offset, what default the schema declares for it, how many live
// bytes it occupies, and how its schema declaration compiles from and
// re-emits to JSON, IDL and binary form.
//
// All numeric types share a single generic codec parameterized by tag,
// width and sign kind; decimals and UUIDs get dedicated codecs. Every
// codec registers itself with the schema compiler table on import.
//
// Signed values (including decimal mantissas) are stored big-endian with
// the sign bit of the first byte flipped, so that plain lexicographic
// comparison of stored bytes matches numeric order. Floats are stored as
// untransformed IEEE-754 big-endian and are therefore not sortable.
package scalar

import (
	"github.com/ptrbuf/ptrbuf/arena"
	"github.com/ptrbuf/ptrbuf/schema"
)

// Ops is the full per-type codec contract: the schema compiler entry plus
// the value operations the buffer layer dispatches on a type tag.
type Ops interface {
	schema.Entry

	// Size returns the live payload bytes behind the cursor: 0 when the
	// pointer slot is empty, the fixed width otherwise. The compaction
	// driver uses it to account for reachable bytes.
	Size(a *arena.Arena, cur arena.Cursor, nodes []schema.Node) int
	// ValueJSON returns the export form of the stored value, falling back
	// to the schema default, or nil when both are absent.
	ValueJSON(a *arena.Arena, cur arena.Cursor, nodes []schema.Node) any
	// SetValueJSON stores a value decoded from JSON input. Input of a
	// mismatched JSON type is silently ignored; only decimal part
	// validation produces errors.
	SetValueJSON(a *arena.Arena, cur arena.Cursor, nodes []schema.Node, v any) error
	// Delete clears the pointer slot. The payload bytes become garbage
	// until an external compaction rewrites the arena.
	Delete(a *arena.Arena, cur arena.Cursor)
}

var ops = map[schema.TypeKey]Ops{}

// Lookup returns the codec for a type tag.
func Lookup(t schema.TypeKey) (Ops, bool) {
	o, ok := ops[t]
	return o, ok
}

func register(o Ops) {
	schema.Register(o)
	ops[o.Type()] = o
}

// flipSign flips the sign bit of the first big-endian byte. Applied on
// write it maps the signed range onto an unsigned range that sorts
// correctly under byte comparison; applied again on read it restores the
// original value.
func flipSign(b []byte) {
	b[0] ^= 0x80
}

func init() {
	register(Int8)
	register(Int16)
	register(Int32)
	register(Int64)
	register(Uint8)
	register(Uint16)
	register(Uint32)
	register(Uint64)
	register(Float32)
	register(Float64)
	register(Dec)
	register(UUID)
}
