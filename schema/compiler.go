package schema

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ptrbuf/ptrbuf/codec"
	"github.com/ptrbuf/ptrbuf/internal/idl"
)

// ErrEmptySchema is returned when a binary schema fragment is empty.
var ErrEmptySchema = errors.New("schema: empty schema")

// ErrUnknownType indicates a declaration naming a type the compiler does
// not know.
type ErrUnknownType struct {
	Name string
}

func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("schema: unknown type %q", e.Name)
}

// ErrUnknownTag indicates a binary fragment carrying an unregistered type
// tag.
type ErrUnknownTag struct {
	Tag TypeKey
}

func (e *ErrUnknownTag) Error() string {
	return fmt.Sprintf("schema: unknown type tag %d", e.Tag)
}

// Entry is one type's contribution to the tri-source compiler. Each entry
// must produce identical nodes and fragments for equivalent declarations
// regardless of the source form, and must re-parse its own fragment
// byte-for-byte.
type Entry interface {
	// Type returns the binary type tag.
	Type() TypeKey
	// JSONName returns the JSON-document type name, e.g. "int8".
	JSONName() string
	// IDLName returns the IDL type name, e.g. "i8".
	IDLName() string

	// CompileJSON appends a node compiled from an unmarshaled JSON schema
	// document and returns the node's canonical binary fragment.
	CompileJSON(nodes []Node, decl map[string]any) ([]byte, []Node, error)
	// CompileIDL appends a node compiled from a parsed IDL declaration.
	CompileIDL(nodes []Node, call *idl.Call) ([]byte, []Node, error)
	// CompileBytes appends a node re-parsed from a binary fragment
	// starting at the type tag, returning the number of bytes consumed.
	CompileBytes(nodes []Node, frag []byte) (int, []Node, error)

	// EmitJSON renders the node at idx back into its JSON document form.
	EmitJSON(nodes []Node, idx int) ([]byte, error)
	// EmitIDL renders the node at idx back into its IDL form.
	EmitIDL(nodes []Node, idx int) (string, error)
}

var registry = struct {
	mu     sync.RWMutex
	byName map[string]Entry
	byTag  map[TypeKey]Entry
}{
	byName: make(map[string]Entry),
	byTag:  make(map[TypeKey]Entry),
}

// Register adds a type entry to the compiler table. Both the JSON and the
// IDL name resolve to the entry, so JSON documents may use either
// spelling. Called from init in the scalar package.
func Register(e Entry) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.byName[e.JSONName()] = e
	registry.byName[e.IDLName()] = e
	registry.byTag[e.Type()] = e
}

// EntryByName returns the compiler entry for a JSON or IDL type name.
func EntryByName(name string) (Entry, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	e, ok := registry.byName[name]
	return e, ok
}

// EntryByTag returns the compiler entry for a binary type tag.
func EntryByTag(tag TypeKey) (Entry, bool) {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	e, ok := registry.byTag[tag]
	return e, ok
}

// Schema is a compiled schema: the flattened node array plus the canonical
// binary fragment it compiles back out of. Schemas are immutable after
// compilation and safe for shared concurrent use.
type Schema struct {
	nodes []Node
	frag  []byte
}

// Nodes returns the flattened node array. Callers must not modify it.
func (s *Schema) Nodes() []Node {
	return s.nodes
}

// Root returns the root node.
func (s *Schema) Root() Node {
	return s.nodes[0]
}

// Bytes returns the canonical compiled fragment. CompileBytes re-parses it
// into an identical schema.
func (s *Schema) Bytes() []byte {
	return s.frag
}

// ToJSON re-emits the schema as a JSON document.
func (s *Schema) ToJSON() ([]byte, error) {
	e, ok := EntryByTag(s.nodes[0].Type)
	if !ok {
		return nil, &ErrUnknownTag{Tag: s.nodes[0].Type}
	}
	return e.EmitJSON(s.nodes, 0)
}

// ToIDL re-emits the schema as an IDL declaration.
func (s *Schema) ToIDL() (string, error) {
	e, ok := EntryByTag(s.nodes[0].Type)
	if !ok {
		return "", &ErrUnknownTag{Tag: s.nodes[0].Type}
	}
	return e.EmitIDL(s.nodes, 0)
}

// CompileJSON compiles a schema from a JSON document using c to parse it.
// A nil codec falls back to codec.Default. Any malformed declaration fails
// the whole compilation; a partial schema is never returned.
func CompileJSON(c codec.Codec, doc []byte) (*Schema, error) {
	if c == nil {
		c = codec.Default
	}

	var decl map[string]any
	if err := c.Unmarshal(doc, &decl); err != nil {
		return nil, fmt.Errorf("schema: parse json document: %w", err)
	}

	name, _ := decl["type"].(string)
	e, ok := EntryByName(name)
	if !ok {
		return nil, &ErrUnknownType{Name: name}
	}

	frag, nodes, err := e.CompileJSON(nil, decl)
	if err != nil {
		return nil, err
	}
	return &Schema{nodes: nodes, frag: frag}, nil
}

// CompileIDL compiles a schema from an IDL declaration.
func CompileIDL(text string) (*Schema, error) {
	call, err := idl.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	e, ok := EntryByName(call.Name)
	if !ok {
		return nil, &ErrUnknownType{Name: call.Name}
	}

	frag, nodes, err := e.CompileIDL(nil, call)
	if err != nil {
		return nil, err
	}
	return &Schema{nodes: nodes, frag: frag}, nil
}

// CompileBytes compiles a schema from a previously exported binary
// fragment. The fragment is self-describing; truncated input fails the
// compilation.
func CompileBytes(frag []byte) (*Schema, error) {
	if len(frag) == 0 {
		return nil, ErrEmptySchema
	}

	e, ok := EntryByTag(TypeKey(frag[0]))
	if !ok {
		return nil, &ErrUnknownTag{Tag: TypeKey(frag[0])}
	}

	n, nodes, err := e.CompileBytes(nil, frag)
	if err != nil {
		return nil, err
	}

	own := make([]byte, n)
	copy(own, frag)
	return &Schema{nodes: nodes, frag: own}, nil
}
