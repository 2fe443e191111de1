// Package blobstore provides storage abstraction for serialized buffers
// and snapshot containers.
//
// Store is the interface for reading and writing whole blobs by key.
// Buffers are small, self-contained byte strings, so the interface moves
// complete blobs rather than streaming ranges. Implementations must be
// safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: In-memory, for tests
//   - LocalStore: Local filesystem with atomic renames
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible storage
//
// # Custom Implementations
//
// Implement the Store interface to support custom storage backends:
//
//	type Store interface {
//	    Get(ctx, key) ([]byte, error)
//	    Put(ctx, key, data) error
//	    Delete(ctx, key) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
