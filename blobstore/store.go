package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store is an abstraction for moving serialized buffers and snapshot
// containers between the engine and durable storage.
type Store interface {
	// Get reads a complete blob.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, key string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, key string) error
	// List returns all blob keys with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
