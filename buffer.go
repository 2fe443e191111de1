package ptrbuf

import (
	"context"
	"fmt"

	"github.com/ptrbuf/ptrbuf/arena"
	"github.com/ptrbuf/ptrbuf/dec"
	"github.com/ptrbuf/ptrbuf/scalar"
	"github.com/ptrbuf/ptrbuf/schema"
	"github.com/ptrbuf/ptrbuf/uid"
)

// Buffer is a single mutable document: a byte arena interpreted through
// the factory's schema. Buffers are not safe for concurrent use.
type Buffer struct {
	factory *Factory
	arena   *arena.Arena
}

// Bytes returns the serialized buffer. The slice aliases the arena;
// callers that keep writing must copy it first.
func (b *Buffer) Bytes() []byte {
	return b.arena.Bytes()
}

// Len returns the current buffer size in bytes. An empty buffer is
// arena.BaseSize bytes.
func (b *Buffer) Len() int {
	return b.arena.Len()
}

// IsSet reports whether a value is physically present, ignoring any
// schema default. Get accessors fall back to the default; IsSet is how
// callers tell the two apart.
func (b *Buffer) IsSet() bool {
	return b.arena.ReadPtr(arena.RootPtr) != 0
}

// Del clears the value and reports whether one was present. The payload
// bytes stay behind as garbage until Compact reclaims them; the schema
// default, if any, shows through on subsequent reads.
func (b *Buffer) Del() bool {
	o, err := b.ops()
	if err != nil || !b.IsSet() {
		return false
	}
	o.Delete(b.arena, arena.Root())
	return true
}

// ByteCounts is the result of CalcBytes.
type ByteCounts struct {
	// Current is the total buffer size, live bytes plus garbage.
	Current int
	// AfterCompaction is the size a compacted copy would have.
	AfterCompaction int
}

// CalcBytes reports the buffer's size and how much of it survives
// compaction.
func (b *Buffer) CalcBytes() (ByteCounts, error) {
	o, err := b.ops()
	if err != nil {
		return ByteCounts{}, err
	}
	return ByteCounts{
		Current:         b.arena.Len(),
		AfterCompaction: arena.BaseSize + o.Size(b.arena, arena.Root(), b.nodes()),
	}, nil
}

// Compact rewrites the arena keeping only reachable bytes. Deleted and
// overwritten-then-orphaned payloads are dropped; a buffer whose value
// was deleted compacts back to the empty footprint.
func (b *Buffer) Compact() error {
	before := b.arena.Len()

	fresh := arena.New(0)
	if addr := b.arena.ReadPtr(arena.RootPtr); addr != 0 {
		width := int(b.factory.schema.Root().Bytes)
		payload := b.arena.Read(addr, width)
		if payload == nil {
			return fmt.Errorf("ptrbuf: compact: payload at %d out of range", addr)
		}
		moved, err := fresh.MallocBorrow(payload)
		if err != nil {
			return err
		}
		fresh.WritePtr(arena.RootPtr, moved)
	}
	b.arena = fresh

	b.factory.opts.logger.LogCompact(context.Background(), before, b.arena.Len())
	return nil
}

// ToJSON exports the value (or the schema default when unset) using the
// factory codec. An empty buffer without a default exports JSON null.
func (b *Buffer) ToJSON() ([]byte, error) {
	o, err := b.ops()
	if err != nil {
		return nil, err
	}
	return b.factory.opts.codec.Marshal(o.ValueJSON(b.arena, arena.Root(), b.nodes()))
}

// SetJSON imports a value from JSON input. Input of a mismatched JSON
// type is silently ignored; malformed decimal parts are reported.
func (b *Buffer) SetJSON(doc []byte) error {
	o, err := b.ops()
	if err != nil {
		return err
	}

	var v any
	if err := b.factory.opts.codec.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("ptrbuf: parse value json: %w", err)
	}

	err = o.SetValueJSON(b.arena, arena.Root(), b.nodes(), v)
	b.factory.opts.logger.LogSet(context.Background(), b.factory.schema.Root().Type, b.arena.Len(), err)
	return err
}

// GetNumber reads a numeric value of type T. When the slot is unset the
// schema default is returned instead; the second result is false only
// when neither exists.
func GetNumber[T schema.Number](b *Buffer) (T, bool, error) {
	var zero T

	c := scalar.NumberFor[T]()
	if c == nil {
		return zero, false, &ErrTypeMismatch{Got: b.factory.schema.Root().Type}
	}
	if got := b.factory.schema.Root().Type; got != c.Type() {
		return zero, false, &ErrTypeMismatch{Want: c.Type(), Got: got}
	}

	if v, ok := c.Read(b.arena, arena.Root()); ok {
		return v, true, nil
	}
	if d, ok := c.Default(b.nodes(), 0); ok {
		return d, true, nil
	}
	return zero, false, nil
}

// SetNumber writes a numeric value of type T.
func SetNumber[T schema.Number](b *Buffer, v T) error {
	c := scalar.NumberFor[T]()
	if c == nil {
		return &ErrTypeMismatch{Got: b.factory.schema.Root().Type}
	}
	if got := b.factory.schema.Root().Type; got != c.Type() {
		return &ErrTypeMismatch{Want: c.Type(), Got: got}
	}

	err := c.Write(b.arena, arena.Root(), v)
	b.factory.opts.logger.LogSet(context.Background(), c.Type(), b.arena.Len(), err)
	return err
}

// GetDec reads the decimal value, falling back to the schema default.
func (b *Buffer) GetDec() (dec.Dec, bool, error) {
	if got := b.factory.schema.Root().Type; got != schema.TypeDec {
		return dec.Dec{}, false, &ErrTypeMismatch{Want: schema.TypeDec, Got: got}
	}

	if v, ok := scalar.Dec.Read(b.arena, arena.Root(), b.nodes()); ok {
		return v, true, nil
	}
	if d, ok := scalar.Dec.Default(b.nodes(), 0); ok {
		return d, true, nil
	}
	return dec.Dec{}, false, nil
}

// SetDec writes a decimal value, converting it to the schema exponent.
// Digits below the schema precision are truncated.
func (b *Buffer) SetDec(v dec.Dec) error {
	if got := b.factory.schema.Root().Type; got != schema.TypeDec {
		return &ErrTypeMismatch{Want: schema.TypeDec, Got: got}
	}

	err := scalar.Dec.Write(b.arena, arena.Root(), b.nodes(), v)
	b.factory.opts.logger.LogSet(context.Background(), schema.TypeDec, b.arena.Len(), err)
	return err
}

// GetUUID reads the stored UUID.
func (b *Buffer) GetUUID() (uid.UUID, bool, error) {
	if got := b.factory.schema.Root().Type; got != schema.TypeUUID {
		return uid.Nil, false, &ErrTypeMismatch{Want: schema.TypeUUID, Got: got}
	}

	v, ok := scalar.UUID.Read(b.arena, arena.Root())
	return v, ok, nil
}

// SetUUID writes a UUID.
func (b *Buffer) SetUUID(v uid.UUID) error {
	if got := b.factory.schema.Root().Type; got != schema.TypeUUID {
		return &ErrTypeMismatch{Want: schema.TypeUUID, Got: got}
	}

	err := scalar.UUID.Write(b.arena, arena.Root(), v)
	b.factory.opts.logger.LogSet(context.Background(), schema.TypeUUID, b.arena.Len(), err)
	return err
}

func (b *Buffer) nodes() []schema.Node {
	return b.factory.schema.Nodes()
}

func (b *Buffer) ops() (scalar.Ops, error) {
	o, ok := scalar.Lookup(b.factory.schema.Root().Type)
	if !ok {
		return nil, ErrNoCodec
	}
	return o, nil
}
