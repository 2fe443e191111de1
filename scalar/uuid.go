package scalar

import (
	"encoding/json"
	"fmt"

	"github.com/ptrbuf/ptrbuf/arena"
	"github.com/ptrbuf/ptrbuf/internal/idl"
	"github.com/ptrbuf/ptrbuf/schema"
	"github.com/ptrbuf/ptrbuf/uid"
)

// UUIDCodec stores 16 raw bytes. UUIDs carry no schema options and no
// default; an unset slot simply reads as absent.
type UUIDCodec struct{}

// UUID is the uuid codec instance.
var UUID = &UUIDCodec{}

const uuidWidth = 16

// Type returns the binary type tag.
func (*UUIDCodec) Type() schema.TypeKey { return schema.TypeUUID }

// JSONName returns the JSON-document type name.
func (*UUIDCodec) JSONName() string { return "uuid" }

// IDLName returns the IDL type name.
func (*UUIDCodec) IDLName() string { return "uuid" }

// Read decodes the value behind the cursor.
func (c *UUIDCodec) Read(a *arena.Arena, cur arena.Cursor) (uid.UUID, bool) {
	addr := a.ReadPtr(cur.PtrAddr)
	if addr == 0 {
		return uid.Nil, false
	}

	raw := a.Read(addr, uuidWidth)
	if raw == nil {
		return uid.Nil, false
	}

	var u uid.UUID
	copy(u[:], raw)
	return u, true
}

// Write stores v behind the cursor.
func (c *UUIDCodec) Write(a *arena.Arena, cur arena.Cursor, v uid.UUID) error {
	if addr := a.ReadPtr(cur.PtrAddr); addr != 0 {
		a.Write(addr, v[:])
		return nil
	}

	addr, err := a.MallocBorrow(v[:])
	if err != nil {
		return err
	}
	a.WritePtr(cur.PtrAddr, addr)
	return nil
}

// Size implements Ops.
func (c *UUIDCodec) Size(a *arena.Arena, cur arena.Cursor, _ []schema.Node) int {
	if a.ReadPtr(cur.PtrAddr) == 0 {
		return 0
	}
	return uuidWidth
}

// Delete implements Ops.
func (c *UUIDCodec) Delete(a *arena.Arena, cur arena.Cursor) {
	a.WritePtr(cur.PtrAddr, 0)
}

// ValueJSON implements Ops.
func (c *UUIDCodec) ValueJSON(a *arena.Arena, cur arena.Cursor, _ []schema.Node) any {
	u, ok := c.Read(a, cur)
	if !ok {
		return nil
	}
	return u.String()
}

// SetValueJSON implements Ops. Non-string JSON input is silently ignored.
func (c *UUIDCodec) SetValueJSON(a *arena.Arena, cur arena.Cursor, _ []schema.Node, v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return c.Write(a, cur, uid.FromString(s))
}

// CompileJSON implements schema.Entry.
func (c *UUIDCodec) CompileJSON(nodes []schema.Node, _ map[string]any) ([]byte, []schema.Node, error) {
	return []byte{byte(schema.TypeUUID)}, append(nodes, c.node()), nil
}

// CompileIDL implements schema.Entry.
func (c *UUIDCodec) CompileIDL(nodes []schema.Node, _ *idl.Call) ([]byte, []schema.Node, error) {
	return []byte{byte(schema.TypeUUID)}, append(nodes, c.node()), nil
}

// CompileBytes implements schema.Entry.
func (c *UUIDCodec) CompileBytes(nodes []schema.Node, frag []byte) (int, []schema.Node, error) {
	if len(frag) < 1 {
		return 0, nil, fmt.Errorf("schema: truncated uuid fragment")
	}
	return 1, append(nodes, c.node()), nil
}

// EmitJSON implements schema.Entry.
func (c *UUIDCodec) EmitJSON(_ []schema.Node, _ int) ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
	}{Type: c.JSONName()})
}

// EmitIDL implements schema.Entry.
func (c *UUIDCodec) EmitIDL(_ []schema.Node, _ int) (string, error) {
	return "uuid()", nil
}

func (c *UUIDCodec) node() schema.Node {
	return schema.Node{
		Type:     schema.TypeUUID,
		Width:    schema.FixedWidth(uuidWidth),
		Sortable: true,
		Config:   schema.UUIDConfig{},
	}
}
