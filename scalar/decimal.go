package scalar

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ptrbuf/ptrbuf/arena"
	"github.com/ptrbuf/ptrbuf/dec"
	"github.com/ptrbuf/ptrbuf/internal/idl"
	"github.com/ptrbuf/ptrbuf/schema"
)

// ErrDecParts is returned when a JSON "parts" object carries a malformed
// num or exp field. Unlike plain mismatched JSON input, a broken parts
// object is an explicit caller mistake and is reported.
var ErrDecParts = errors.New("scalar: malformed decimal parts")

// DecCodec stores fixed-point decimals as an 8-byte big-endian mantissa
// with the sign bit flipped, so encoded values sort bytewise. The exponent
// lives in the schema, never in the buffer.
type DecCodec struct{}

// Dec is the decimal codec instance.
var Dec = &DecCodec{}

const decWidth = 8

// Type returns the binary type tag.
func (*DecCodec) Type() schema.TypeKey { return schema.TypeDec }

// JSONName returns the JSON-document type name.
func (*DecCodec) JSONName() string { return "decimal" }

// IDLName returns the IDL type name.
func (*DecCodec) IDLName() string { return "dec" }

// Read decodes the value behind the cursor, carrying the schema exponent.
func (c *DecCodec) Read(a *arena.Arena, cur arena.Cursor, nodes []schema.Node) (dec.Dec, bool) {
	addr := a.ReadPtr(cur.PtrAddr)
	if addr == 0 {
		return dec.Dec{}, false
	}

	raw := a.Read(addr, decWidth)
	if raw == nil {
		return dec.Dec{}, false
	}

	b := make([]byte, decWidth)
	copy(b, raw)
	flipSign(b)
	return dec.New(int64(beUint(b)), c.exp(nodes, cur.SchemaIndex)), true
}

// Write stores v behind the cursor, first converting it to the schema
// exponent. Digits below the schema precision are truncated.
func (c *DecCodec) Write(a *arena.Arena, cur arena.Cursor, nodes []schema.Node, v dec.Dec) error {
	v.ShiftExp(c.exp(nodes, cur.SchemaIndex))

	b := make([]byte, decWidth)
	putBE(b, uint64(v.Num))
	flipSign(b)

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

// Default returns the schema-declared default, or false when the schema
// declares none.
func (c *DecCodec) Default(nodes []schema.Node, idx int) (dec.Dec, bool) {
	cfg, ok := nodes[idx].Config.(schema.DecConfig)
	if !ok || cfg.Default == nil {
		return dec.Dec{}, false
	}
	return *cfg.Default, true
}

// Size implements Ops.
func (c *DecCodec) Size(a *arena.Arena, cur arena.Cursor, _ []schema.Node) int {
	if a.ReadPtr(cur.PtrAddr) == 0 {
		return 0
	}
	return decWidth
}

// Delete implements Ops.
func (c *DecCodec) Delete(a *arena.Arena, cur arena.Cursor) {
	a.WritePtr(cur.PtrAddr, 0)
}

// ValueJSON implements Ops. The export carries both the float rendering
// and the exact parts so no precision is lost in transit.
func (c *DecCodec) ValueJSON(a *arena.Arena, cur arena.Cursor, nodes []schema.Node) any {
	v, ok := c.Read(a, cur, nodes)
	if !ok {
		v, ok = c.Default(nodes, cur.SchemaIndex)
	}
	if !ok {
		return nil
	}
	return map[string]any{
		"value": v.Float(),
		"parts": map[string]any{
			"num": v.Num,
			"exp": v.Exp,
		},
	}
}

// SetValueJSON implements Ops. Accepts a bare number or an object with a
// "parts" member; a malformed parts object is an error, anything else
// non-numeric is ignored.
func (c *DecCodec) SetValueJSON(a *arena.Arena, cur arena.Cursor, nodes []schema.Node, v any) error {
	switch x := v.(type) {
	case float64:
		return c.Write(a, cur, nodes, dec.FromFloat(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil
		}
		return c.Write(a, cur, nodes, dec.FromFloat(f))
	case map[string]any:
		parts, ok := x["parts"].(map[string]any)
		if !ok {
			if f, ok := x["value"].(float64); ok {
				return c.Write(a, cur, nodes, dec.FromFloat(f))
			}
			return nil
		}
		num, ok := jsonInt64(parts["num"])
		if !ok {
			return ErrDecParts
		}
		exp, ok := jsonInt64(parts["exp"])
		if !ok || exp < 0 || exp > math.MaxUint8 {
			return ErrDecParts
		}
		return c.Write(a, cur, nodes, dec.New(num, uint8(exp)))
	default:
		return nil
	}
}

// CompileJSON implements schema.Entry. The exp key is mandatory.
func (c *DecCodec) CompileJSON(nodes []schema.Node, decl map[string]any) ([]byte, []schema.Node, error) {
	raw, present := decl["exp"]
	exp, ok := jsonInt64(raw)
	if !present || !ok || exp < 0 || exp > math.MaxUint8 {
		return nil, nil, fmt.Errorf("schema: decimal requires an exp between 0 and 255")
	}

	var def *dec.Dec
	if f, ok := decl["default"].(float64); ok {
		d := decDefault(f, uint8(exp))
		def = &d
	} else if _, has := decl["default"]; has {
		return nil, nil, fmt.Errorf("schema: decimal default must be a number")
	}

	return c.compiled(nodes, uint8(exp), def)
}

// CompileIDL implements schema.Entry.
func (c *DecCodec) CompileIDL(nodes []schema.Node, call *idl.Call) ([]byte, []schema.Node, error) {
	raw, present := call.Arg("exp")
	exp, err := strconv.ParseUint(raw, 10, 8)
	if !present || err != nil {
		return nil, nil, fmt.Errorf("schema: decimal requires an exp between 0 and 255")
	}

	var def *dec.Dec
	if raw, ok := call.Arg("default"); ok {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("schema: decimal default must be a number")
		}
		d := decDefault(f, uint8(exp))
		def = &d
	}

	return c.compiled(nodes, uint8(exp), def)
}

// CompileBytes implements schema.Entry.
func (c *DecCodec) CompileBytes(nodes []schema.Node, frag []byte) (int, []schema.Node, error) {
	if len(frag) < 3 {
		return 0, nil, fmt.Errorf("schema: truncated decimal fragment")
	}

	exp := frag[1]
	n := 3
	var def *dec.Dec
	if frag[2] != 0 {
		if len(frag) < n+decWidth {
			return 0, nil, fmt.Errorf("schema: truncated decimal default")
		}
		d := dec.New(int64(beUint(frag[n:n+decWidth])), exp)
		def = &d
		n += decWidth
	}

	nodes = append(nodes, c.node(exp, def))
	return n, nodes, nil
}

// EmitJSON implements schema.Entry.
func (c *DecCodec) EmitJSON(nodes []schema.Node, idx int) ([]byte, error) {
	out := struct {
		Type    string          `json:"type"`
		Exp     uint8           `json:"exp"`
		Default json.RawMessage `json:"default,omitempty"`
	}{Type: c.JSONName(), Exp: c.exp(nodes, idx)}

	if d, ok := c.Default(nodes, idx); ok {
		out.Default = json.RawMessage(strconv.FormatFloat(d.Float(), 'f', -1, 64))
	}
	return json.Marshal(out)
}

// EmitIDL implements schema.Entry.
func (c *DecCodec) EmitIDL(nodes []schema.Node, idx int) (string, error) {
	var sb strings.Builder
	sb.WriteString("dec({exp: ")
	sb.WriteString(strconv.FormatUint(uint64(c.exp(nodes, idx)), 10))
	if d, ok := c.Default(nodes, idx); ok {
		sb.WriteString(", default: ")
		sb.WriteString(strconv.FormatFloat(d.Float(), 'f', -1, 64))
	}
	sb.WriteString("})")
	return sb.String(), nil
}

func (c *DecCodec) exp(nodes []schema.Node, idx int) uint8 {
	cfg, _ := nodes[idx].Config.(schema.DecConfig)
	return cfg.Exp
}

func (c *DecCodec) compiled(nodes []schema.Node, exp uint8, def *dec.Dec) ([]byte, []schema.Node, error) {
	frag := make([]byte, 0, 3+decWidth)
	frag = append(frag, byte(schema.TypeDec), exp)
	if def != nil {
		frag = append(frag, 1)
		b := make([]byte, decWidth)
		putBE(b, uint64(def.Num))
		frag = append(frag, b...)
	} else {
		frag = append(frag, 0)
	}
	return frag, append(nodes, c.node(exp, def)), nil
}

func (c *DecCodec) node(exp uint8, def *dec.Dec) schema.Node {
	return schema.Node{
		Type:     schema.TypeDec,
		Width:    schema.FixedWidth(decWidth),
		Sortable: true,
		Config:   schema.DecConfig{Exp: exp, Default: def},
	}
}

// decDefault scales a document float to the schema exponent, rounding
// half away from zero.
func decDefault(f float64, exp uint8) dec.Dec {
	scaled := f
	for i := uint8(0); i < exp; i++ {
		scaled *= 10
	}
	if scaled >= 0 {
		return dec.New(int64(scaled+0.5), exp)
	}
	return dec.New(int64(scaled-0.5), exp)
}

// jsonInt64 extracts an integral value from decoded JSON.
func jsonInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case int:
		return int64(x), true
	case int64:
		return x, true
	case json.Number:
		i, err := x.Int64()
		return i, err == nil
	default:
		return 0, false
	}
}
