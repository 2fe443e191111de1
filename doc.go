// Package ptrbuf implements a schema-driven binary serialization engine
// with mutable, zero-copy buffers.
//
// A schema is compiled once, from JSON, from a compact IDL string or from
// its own exported binary form, and then shared across any number of
// buffers. Values live in a flat growable byte arena addressed through
// 4-byte pointer slots, so reads and writes touch single values without
// deserializing the rest of the buffer.
//
// # Quick Start
//
//	factory, _ := ptrbuf.New("i8({default: 56})")
//
//	buf := factory.NewBuffer()
//	_ = ptrbuf.SetNumber[int8](buf, 127)
//	v, ok, _ := ptrbuf.GetNumber[int8](buf)  // 127, true
//
//	wire := buf.Bytes()                      // ship it
//	again := factory.OpenBuffer(wire)        // reopen, no parsing
//
// Signed integers and decimals are stored big-endian with the sign bit
// flipped, so encoded buffers of sortable schemas compare bytewise in
// numeric order.
//
// # Schemas on the Wire
//
// Factory.SchemaBytes exports the compiled schema in a compact binary
// form; ptrbuf.NewBytes reopens it without JSON or IDL parsing. The
// snapshot package bundles schema and buffers into a single compressed
// container for storage, and blobstore moves those containers to local
// disk, S3 or MinIO.
package ptrbuf
