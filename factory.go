package ptrbuf

import (
	"context"

	"github.com/ptrbuf/ptrbuf/arena"
	"github.com/ptrbuf/ptrbuf/schema"
)

// Factory is a compiled schema plus configuration, shared by every buffer
// it creates. A Factory is immutable and safe for concurrent use; the
// buffers it hands out are not.
type Factory struct {
	schema *schema.Schema
	opts   options
}

// New compiles an IDL schema declaration into a factory.
//
//	factory, err := ptrbuf.New("dec({exp: 2})")
func New(text string, optFns ...Option) (*Factory, error) {
	o := applyOptions(optFns)

	s, err := schema.CompileIDL(text)
	o.logger.LogCompile(context.Background(), "idl", err)
	if err != nil {
		return nil, err
	}
	return &Factory{schema: s, opts: o}, nil
}

// NewJSON compiles a JSON schema document into a factory.
//
//	factory, err := ptrbuf.NewJSON([]byte(`{"type":"decimal","exp":2}`))
func NewJSON(doc []byte, optFns ...Option) (*Factory, error) {
	o := applyOptions(optFns)

	s, err := schema.CompileJSON(o.codec, doc)
	o.logger.LogCompile(context.Background(), "json", err)
	if err != nil {
		return nil, err
	}
	return &Factory{schema: s, opts: o}, nil
}

// NewBytes reopens a factory from a schema previously exported with
// SchemaBytes. No JSON or IDL parsing happens on this path.
func NewBytes(frag []byte, optFns ...Option) (*Factory, error) {
	o := applyOptions(optFns)

	s, err := schema.CompileBytes(frag)
	o.logger.LogCompile(context.Background(), "bytes", err)
	if err != nil {
		return nil, err
	}
	return &Factory{schema: s, opts: o}, nil
}

// Schema returns the compiled schema.
func (f *Factory) Schema() *schema.Schema {
	return f.schema
}

// SchemaBytes exports the schema in its canonical binary form. NewBytes
// reopens it into an equivalent factory.
func (f *Factory) SchemaBytes() []byte {
	return f.schema.Bytes()
}

// SchemaJSON re-emits the schema as a JSON document.
func (f *Factory) SchemaJSON() ([]byte, error) {
	return f.schema.ToJSON()
}

// SchemaIDL re-emits the schema as an IDL declaration.
func (f *Factory) SchemaIDL() (string, error) {
	return f.schema.ToIDL()
}

// NewBuffer creates an empty buffer for this schema.
func (f *Factory) NewBuffer() *Buffer {
	return f.NewBufferSize(0)
}

// NewBufferSize creates an empty buffer with pre-allocated arena capacity,
// for callers that know roughly how much they will write.
func (f *Factory) NewBufferSize(capacity int) *Buffer {
	return &Buffer{factory: f, arena: arena.New(capacity)}
}

// OpenBuffer adopts previously serialized buffer bytes. The bytes are not
// copied; the caller must not reuse the slice. Input shorter than an
// empty buffer is replaced by one.
func (f *Factory) OpenBuffer(b []byte) *Buffer {
	return &Buffer{factory: f, arena: arena.FromBytes(b)}
}
