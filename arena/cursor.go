package arena

// Cursor locates one value: the offset of the pointer slot that holds the
// value's address, plus the index of the schema node describing how to
// interpret the payload. A cursor owns neither the arena nor the schema;
// both are borrowed for the duration of a single operation.
//
// PtrAddr must never be 0: offset 0 is the reserved empty sentinel, not a
// legitimate slot address.
type Cursor struct {
	PtrAddr     uint32
	SchemaIndex int
}

// Root returns a cursor for the root pointer slot and schema node 0.
func Root() Cursor {
	return Cursor{PtrAddr: RootPtr}
}
