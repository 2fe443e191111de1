package scalar

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ptrbuf/ptrbuf/arena"
	"github.com/ptrbuf/ptrbuf/internal/idl"
	"github.com/ptrbuf/ptrbuf/schema"
)

// NumKind classifies a numeric codec's encoding behavior.
type NumKind uint8

const (
	// Signed integers get the order-preserving sign-bit flip.
	Signed NumKind = iota
	// Unsigned integers are stored as plain big-endian bytes.
	Unsigned
	// Floating values are stored as IEEE-754 big-endian and are not
	// sortable by byte comparison.
	Floating
)

// NumberCodec is the codec shared by every primitive numeric type. One
// instance exists per type, differing only in tag, names, width and kind.
type NumberCodec[T schema.Number] struct {
	tag      schema.TypeKey
	jsonName string
	idlName  string
	kind     NumKind
	width    uint32
}

// The numeric codec instances, one per primitive type.
var (
	Int8    = &NumberCodec[int8]{tag: schema.TypeInt8, jsonName: "int8", idlName: "i8", kind: Signed, width: 1}
	Int16   = &NumberCodec[int16]{tag: schema.TypeInt16, jsonName: "int16", idlName: "i16", kind: Signed, width: 2}
	Int32   = &NumberCodec[int32]{tag: schema.TypeInt32, jsonName: "int32", idlName: "i32", kind: Signed, width: 4}
	Int64   = &NumberCodec[int64]{tag: schema.TypeInt64, jsonName: "int64", idlName: "i64", kind: Signed, width: 8}
	Uint8   = &NumberCodec[uint8]{tag: schema.TypeUint8, jsonName: "uint8", idlName: "u8", kind: Unsigned, width: 1}
	Uint16  = &NumberCodec[uint16]{tag: schema.TypeUint16, jsonName: "uint16", idlName: "u16", kind: Unsigned, width: 2}
	Uint32  = &NumberCodec[uint32]{tag: schema.TypeUint32, jsonName: "uint32", idlName: "u32", kind: Unsigned, width: 4}
	Uint64  = &NumberCodec[uint64]{tag: schema.TypeUint64, jsonName: "uint64", idlName: "u64", kind: Unsigned, width: 8}
	Float32 = &NumberCodec[float32]{tag: schema.TypeFloat, jsonName: "float", idlName: "f32", kind: Floating, width: 4}
	Float64 = &NumberCodec[float64]{tag: schema.TypeDouble, jsonName: "double", idlName: "f64", kind: Floating, width: 8}
)

// NumberFor returns the codec instance for primitive type T, or nil for
// named types not covered by a codec.
func NumberFor[T schema.Number]() *NumberCodec[T] {
	var z T
	var c any
	switch any(z).(type) {
	case int8:
		c = Int8
	case int16:
		c = Int16
	case int32:
		c = Int32
	case int64:
		c = Int64
	case uint8:
		c = Uint8
	case uint16:
		c = Uint16
	case uint32:
		c = Uint32
	case uint64:
		c = Uint64
	case float32:
		c = Float32
	case float64:
		c = Float64
	default:
		return nil
	}
	return c.(*NumberCodec[T])
}

// Type returns the binary type tag.
func (c *NumberCodec[T]) Type() schema.TypeKey { return c.tag }

// JSONName returns the JSON-document type name.
func (c *NumberCodec[T]) JSONName() string { return c.jsonName }

// IDLName returns the IDL type name.
func (c *NumberCodec[T]) IDLName() string { return c.idlName }

// Read decodes the value behind the cursor. The second result is false
// when the pointer slot is empty; callers that want the schema default
// consult Default next.
func (c *NumberCodec[T]) Read(a *arena.Arena, cur arena.Cursor) (T, bool) {
	var zero T

	addr := a.ReadPtr(cur.PtrAddr)
	if addr == 0 {
		return zero, false
	}

	raw := a.Read(addr, int(c.width))
	if raw == nil {
		return zero, false
	}

	b := make([]byte, c.width)
	copy(b, raw)
	if c.kind == Signed {
		flipSign(b)
	}
	return numFromBits[T](beUint(b)), true
}

// Write encodes v behind the cursor: in place when the slot already holds
// an address, via a fresh allocation otherwise.
func (c *NumberCodec[T]) Write(a *arena.Arena, cur arena.Cursor, v T) error {
	b := c.encode(v)

	if addr := a.ReadPtr(cur.PtrAddr); addr != 0 {
		a.Write(addr, b)
		return nil
	}

	addr, err := a.MallocBorrow(b)
	if err != nil {
		return err
	}
	a.WritePtr(cur.PtrAddr, addr)
	return nil
}

// Default returns the schema-declared default for the node at idx, or
// false when the schema declares none.
func (c *NumberCodec[T]) Default(nodes []schema.Node, idx int) (T, bool) {
	var zero T
	cfg, ok := nodes[idx].Config.(schema.NumberConfig[T])
	if !ok || cfg.Default == nil {
		return zero, false
	}
	return *cfg.Default, true
}

// MaxValue returns the largest representable value of T.
func (c *NumberCodec[T]) MaxValue() T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = math.MaxInt8
	case *int16:
		*p = math.MaxInt16
	case *int32:
		*p = math.MaxInt32
	case *int64:
		*p = math.MaxInt64
	case *uint8:
		*p = math.MaxUint8
	case *uint16:
		*p = math.MaxUint16
	case *uint32:
		*p = math.MaxUint32
	case *uint64:
		*p = math.MaxUint64
	case *float32:
		*p = math.MaxFloat32
	case *float64:
		*p = math.MaxFloat64
	}
	return v
}

// MinValue returns the smallest representable value of T. For floats this
// is the most negative finite value, not the smallest positive one.
func (c *NumberCodec[T]) MinValue() T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = math.MinInt8
	case *int16:
		*p = math.MinInt16
	case *int32:
		*p = math.MinInt32
	case *int64:
		*p = math.MinInt64
	case *float32:
		*p = -math.MaxFloat32
	case *float64:
		*p = -math.MaxFloat64
	}
	return v
}

// Size implements Ops.
func (c *NumberCodec[T]) Size(a *arena.Arena, cur arena.Cursor, _ []schema.Node) int {
	if a.ReadPtr(cur.PtrAddr) == 0 {
		return 0
	}
	return int(c.width)
}

// Delete implements Ops.
func (c *NumberCodec[T]) Delete(a *arena.Arena, cur arena.Cursor) {
	a.WritePtr(cur.PtrAddr, 0)
}

// ValueJSON implements Ops.
func (c *NumberCodec[T]) ValueJSON(a *arena.Arena, cur arena.Cursor, nodes []schema.Node) any {
	v, ok := c.Read(a, cur)
	if !ok {
		v, ok = c.Default(nodes, cur.SchemaIndex)
	}
	if !ok {
		return nil
	}

	switch c.kind {
	case Floating:
		return numFloat64(v)
	case Signed:
		return numInt64(v)
	default:
		return numUint64(v)
	}
}

// SetValueJSON implements Ops. Non-numeric JSON input is silently ignored.
func (c *NumberCodec[T]) SetValueJSON(a *arena.Arena, cur arena.Cursor, _ []schema.Node, v any) error {
	switch x := v.(type) {
	case float64:
		return c.Write(a, cur, fromFloat64[T](x))
	case int:
		return c.Write(a, cur, fromInt64[T](int64(x)))
	case int64:
		return c.Write(a, cur, fromInt64[T](x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil
		}
		return c.Write(a, cur, fromFloat64[T](f))
	default:
		return nil
	}
}

// CompileJSON implements schema.Entry.
func (c *NumberCodec[T]) CompileJSON(nodes []schema.Node, decl map[string]any) ([]byte, []schema.Node, error) {
	var def *T
	switch x := decl["default"].(type) {
	case float64:
		v := fromFloat64[T](x)
		def = &v
	case json.Number:
		if f, err := x.Float64(); err == nil {
			v := fromFloat64[T](f)
			def = &v
		}
	}
	return c.compiled(nodes, def)
}

// CompileIDL implements schema.Entry. An unparsable default argument is
// ignored rather than rejected.
func (c *NumberCodec[T]) CompileIDL(nodes []schema.Node, call *idl.Call) ([]byte, []schema.Node, error) {
	var def *T
	if raw, ok := call.Arg("default"); ok {
		if v, ok := c.parseLiteral(raw); ok {
			def = &v
		}
	}
	return c.compiled(nodes, def)
}

// CompileBytes implements schema.Entry.
func (c *NumberCodec[T]) CompileBytes(nodes []schema.Node, frag []byte) (int, []schema.Node, error) {
	if len(frag) < 2 {
		return 0, nil, fmt.Errorf("schema: truncated %s fragment", c.jsonName)
	}

	n := 2
	var def *T
	if frag[1] != 0 {
		if len(frag) < n+int(c.width) {
			return 0, nil, fmt.Errorf("schema: truncated %s default", c.jsonName)
		}
		v := numFromBits[T](beUint(frag[n : n+int(c.width)]))
		def = &v
		n += int(c.width)
	}

	nodes = append(nodes, c.node(def))
	return n, nodes, nil
}

// EmitJSON implements schema.Entry.
func (c *NumberCodec[T]) EmitJSON(nodes []schema.Node, idx int) ([]byte, error) {
	out := struct {
		Type    string          `json:"type"`
		Default json.RawMessage `json:"default,omitempty"`
	}{Type: c.jsonName}

	if d, ok := c.Default(nodes, idx); ok {
		out.Default = json.RawMessage(c.formatJSON(d))
	}
	return json.Marshal(out)
}

// EmitIDL implements schema.Entry.
func (c *NumberCodec[T]) EmitIDL(nodes []schema.Node, idx int) (string, error) {
	var sb strings.Builder
	sb.WriteString(c.idlName)
	if d, ok := c.Default(nodes, idx); ok {
		sb.WriteString("({default: ")
		sb.WriteString(c.formatIDL(d))
		sb.WriteString("})")
	} else {
		sb.WriteString("()")
	}
	return sb.String(), nil
}

func (c *NumberCodec[T]) compiled(nodes []schema.Node, def *T) ([]byte, []schema.Node, error) {
	frag := make([]byte, 0, 2+c.width)
	frag = append(frag, byte(c.tag))
	if def != nil {
		frag = append(frag, 1)
		frag = append(frag, c.encodeRaw(*def)...)
	} else {
		frag = append(frag, 0)
	}
	return frag, append(nodes, c.node(def)), nil
}

func (c *NumberCodec[T]) node(def *T) schema.Node {
	return schema.Node{
		Type:     c.tag,
		Width:    schema.FixedWidth(c.width),
		Sortable: c.kind != Floating,
		Config:   schema.NumberConfig[T]{Default: def},
	}
}

// encode renders v into its stored form: big-endian, sign bit flipped for
// signed kinds.
func (c *NumberCodec[T]) encode(v T) []byte {
	b := c.encodeRaw(v)
	if c.kind == Signed {
		flipSign(b)
	}
	return b
}

// encodeRaw renders v into untransformed big-endian bytes, the form used
// for schema default bytes.
func (c *NumberCodec[T]) encodeRaw(v T) []byte {
	b := make([]byte, c.width)
	putBE(b, numBits(v))
	return b
}

func (c *NumberCodec[T]) parseLiteral(raw string) (T, bool) {
	var zero T
	bits := int(c.width) * 8
	switch c.kind {
	case Signed:
		i, err := strconv.ParseInt(raw, 10, bits)
		if err != nil {
			return zero, false
		}
		return numFromBits[T](uint64(i)), true
	case Unsigned:
		u, err := strconv.ParseUint(raw, 10, bits)
		if err != nil {
			return zero, false
		}
		return numFromBits[T](u), true
	default:
		f, err := strconv.ParseFloat(raw, bits)
		if err != nil {
			return zero, false
		}
		return fromFloat64[T](f), true
	}
}

func (c *NumberCodec[T]) formatJSON(v T) string {
	switch c.kind {
	case Signed:
		return strconv.FormatInt(numInt64(v), 10)
	case Unsigned:
		return strconv.FormatUint(numUint64(v), 10)
	default:
		// widen to float64 so the document round-trips exactly
		return strconv.FormatFloat(numFloat64(v), 'f', -1, 64)
	}
}

func (c *NumberCodec[T]) formatIDL(v T) string {
	if c.kind == Floating {
		return strconv.FormatFloat(numFloat64(v), 'f', -1, int(c.width)*8)
	}
	return c.formatJSON(v)
}

func putBE(b []byte, u uint64) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i] = byte(u)
		u >>= 8
	}
}

func beUint(b []byte) uint64 {
	var u uint64
	for _, x := range b {
		u = u<<8 | uint64(x)
	}
	return u
}

// numBits returns the value's raw bits, zero-extended to 64.
func numBits[T schema.Number](v T) uint64 {
	switch x := any(v).(type) {
	case int8:
		return uint64(uint8(x))
	case int16:
		return uint64(uint16(x))
	case int32:
		return uint64(uint32(x))
	case int64:
		return uint64(x)
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	case float32:
		return uint64(math.Float32bits(x))
	case float64:
		return math.Float64bits(x)
	default:
		return 0
	}
}

// numFromBits rebuilds a value from its raw low bits.
func numFromBits[T schema.Number](u uint64) T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = int8(uint8(u))
	case *int16:
		*p = int16(uint16(u))
	case *int32:
		*p = int32(uint32(u))
	case *int64:
		*p = int64(u)
	case *uint8:
		*p = uint8(u)
	case *uint16:
		*p = uint16(u)
	case *uint32:
		*p = uint32(u)
	case *uint64:
		*p = u
	case *float32:
		*p = math.Float32frombits(uint32(u))
	case *float64:
		*p = math.Float64frombits(u)
	}
	return v
}

// fromFloat64 truncates a JSON number into T.
func fromFloat64[T schema.Number](f float64) T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = int8(f)
	case *int16:
		*p = int16(f)
	case *int32:
		*p = int32(f)
	case *int64:
		*p = int64(f)
	case *uint8:
		*p = uint8(f)
	case *uint16:
		*p = uint16(f)
	case *uint32:
		*p = uint32(f)
	case *uint64:
		*p = uint64(f)
	case *float32:
		*p = float32(f)
	case *float64:
		*p = f
	}
	return v
}

func fromInt64[T schema.Number](n int64) T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = int8(n)
	case *int16:
		*p = int16(n)
	case *int32:
		*p = int32(n)
	case *int64:
		*p = n
	case *uint8:
		*p = uint8(n)
	case *uint16:
		*p = uint16(n)
	case *uint32:
		*p = uint32(n)
	case *uint64:
		*p = uint64(n)
	case *float32:
		*p = float32(n)
	case *float64:
		*p = float64(n)
	}
	return v
}

func numInt64[T schema.Number](v T) int64 {
	switch x := any(v).(type) {
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return int64(x)
	case float64:
		return int64(x)
	default:
		return 0
	}
}

func numUint64[T schema.Number](v T) uint64 {
	switch x := any(v).(type) {
	case uint8:
		return uint64(x)
	case uint16:
		return uint64(x)
	case uint32:
		return uint64(x)
	case uint64:
		return x
	default:
		return uint64(numInt64(v))
	}
}

func numFloat64[T schema.Number](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return float64(x)
	case float64:
		return x
	default:
		return float64(numInt64(v))
	}
}
