// Package schema compiles and represents ptrbuf schemas.
//
// A schema can be expressed three ways: as a JSON document, as a compact
// textual declaration (IDL), or as a pre-compiled binary fragment. All
// three funnel through the same per-type compilation table and produce an
// identical flattened node array plus a canonical binary fragment, so a
// schema compiled from any form re-emits byte-identical JSON, IDL and
// fragment output.
//
// The per-type compilation entries live in the scalar package and register
// themselves on import; importing github.com/ptrbuf/ptrbuf (or the scalar
// package directly) populates the table.
package schema

import "github.com/ptrbuf/ptrbuf/dec"

// TypeKey is the binary tag identifying a value type. The numeric values
// are part of the compiled schema fragment format and must never change.
type TypeKey uint8

const (
	// TypeNone is the zero TypeKey and never appears in a compiled schema.
	TypeNone TypeKey = iota
	// TypeInt8 is a signed 8-bit integer.
	TypeInt8
	// TypeInt16 is a signed 16-bit integer.
	TypeInt16
	// TypeInt32 is a signed 32-bit integer.
	TypeInt32
	// TypeInt64 is a signed 64-bit integer.
	TypeInt64
	// TypeUint8 is an unsigned 8-bit integer.
	TypeUint8
	// TypeUint16 is an unsigned 16-bit integer.
	TypeUint16
	// TypeUint32 is an unsigned 32-bit integer.
	TypeUint32
	// TypeUint64 is an unsigned 64-bit integer.
	TypeUint64
	// TypeFloat is an IEEE-754 single-precision float.
	TypeFloat
	// TypeDouble is an IEEE-754 double-precision float.
	TypeDouble
	// TypeDec is a fixed-point decimal.
	TypeDec
	// TypeUUID is an opaque 16-byte identifier.
	TypeUUID
)

// String returns the JSON-document type name.
func (t TypeKey) String() string {
	switch t {
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeDec:
		return "decimal"
	case TypeUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// Number constrains the primitive numeric types a schema can describe.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Width classifies a value's storage footprint: a fixed byte count, or
// variable for types whose payload length is data-dependent.
type Width struct {
	// Variable is true for variable-length payloads. Every scalar type is
	// fixed-width; the flag exists for compound types layered on top.
	Variable bool
	// Bytes is the payload width for fixed-width values.
	Bytes uint32
}

// FixedWidth returns a fixed n-byte width.
func FixedWidth(n uint32) Width {
	return Width{Bytes: n}
}

// VariableWidth returns a variable-length width.
func VariableWidth() Width {
	return Width{Variable: true}
}

// Config is the closed set of per-type schema configuration blocks, stored
// by value in a Node. Implementations live in this package only.
type Config interface {
	isConfig()
}

// NumberConfig carries the optional default for a numeric type.
type NumberConfig[T Number] struct {
	// Default is the schema-declared default value, or nil when the schema
	// declares none. A nil default means "genuinely absent", not zero.
	Default *T
}

func (NumberConfig[T]) isConfig() {}

// DecConfig carries the fixed exponent and optional default of a decimal.
type DecConfig struct {
	Exp     uint8
	Default *dec.Dec
}

func (DecConfig) isConfig() {}

// UUIDConfig is empty: UUID schemas have no configuration and no default.
type UUIDConfig struct{}

func (UUIDConfig) isConfig() {}

// Node is one flattened, compiled description of a value: its type tag,
// width classification, sortability, and type-specific configuration.
//
// A node's index in the compiled schema array is stable for the life of
// the schema and is all a cursor needs to resolve codec behavior. Nodes
// are never mutated after compilation and may be shared freely across
// goroutines.
type Node struct {
	Type TypeKey
	Width
	// Sortable reports whether the stored byte encoding preserves numeric
	// order under plain lexicographic comparison.
	Sortable bool
	Config   Config
}
