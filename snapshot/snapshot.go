// Package snapshot bundles a compiled schema and its buffers into a
// single self-describing container, optionally compressed, and moves
// containers through a blobstore.Store.
//
// The container format is:
//
//	magic "PBSN" | version byte | compression byte | payload
//
// where payload is, after decompression:
//
//	uvarint schema length | schema bytes
//	uvarint buffer count
//	per buffer: uvarint length | buffer bytes
//
// The schema travels in its binary form, so loading a snapshot never
// parses JSON or IDL.
package snapshot

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/errgroup"

	"github.com/ptrbuf/ptrbuf"
	"github.com/ptrbuf/ptrbuf/blobstore"
)

var (
	// ErrBadMagic is returned when the input is not a snapshot container.
	ErrBadMagic = errors.New("snapshot: bad magic")
	// ErrBadVersion is returned for container versions this build cannot read.
	ErrBadVersion = errors.New("snapshot: unsupported version")
	// ErrBadCompression is returned for unknown compression tags.
	ErrBadCompression = errors.New("snapshot: unknown compression")
)

var magic = [4]byte{'P', 'B', 'S', 'N'}

const version = 1

// Compression selects the payload compression.
type Compression uint8

const (
	// None stores the payload uncompressed.
	None Compression = iota
	// Zstd balances ratio and speed; the default for storage.
	Zstd
	// LZ4 trades ratio for the fastest decode path.
	LZ4
)

type options struct {
	compression Compression
	parallelism int
	logger      *ptrbuf.Logger
}

// Option configures snapshot encoding.
type Option func(*options)

// WithCompression selects the payload compression. Default is Zstd.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithParallelism caps concurrent uploads in SaveAll. Default is 4.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithLogger configures structured logging for store operations.
func WithLogger(logger *ptrbuf.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		compression: Zstd,
		parallelism: 4,
		logger:      ptrbuf.NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// Snapshot is one factory with the buffers to persist alongside it.
type Snapshot struct {
	Factory *ptrbuf.Factory
	Buffers []*ptrbuf.Buffer
}

// Encode renders the snapshot into container bytes.
func Encode(s Snapshot, optFns ...Option) ([]byte, error) {
	o := applyOptions(optFns)

	var payload bytes.Buffer
	writeChunk(&payload, s.Factory.SchemaBytes())
	writeUvarint(&payload, uint64(len(s.Buffers)))
	for _, b := range s.Buffers {
		writeChunk(&payload, b.Bytes())
	}

	compressed, err := compress(payload.Bytes(), o.compression)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(compressed)+6)
	out = append(out, magic[:]...)
	out = append(out, version, byte(o.compression))
	return append(out, compressed...), nil
}

// Decode reopens a snapshot from container bytes.
func Decode(data []byte, optFns ...ptrbuf.Option) (Snapshot, error) {
	if len(data) < 6 || !bytes.Equal(data[:4], magic[:]) {
		return Snapshot{}, ErrBadMagic
	}
	if data[4] != version {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrBadVersion, data[4])
	}

	payload, err := decompress(data[6:], Compression(data[5]))
	if err != nil {
		return Snapshot{}, err
	}

	schemaBytes, payload, err := readChunk(payload)
	if err != nil {
		return Snapshot{}, err
	}

	factory, err := ptrbuf.NewBytes(schemaBytes, optFns...)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: reopen schema: %w", err)
	}

	count, payload, err := readUvarint(payload)
	if err != nil {
		return Snapshot{}, err
	}

	s := Snapshot{Factory: factory, Buffers: make([]*ptrbuf.Buffer, 0, count)}
	for i := uint64(0); i < count; i++ {
		var raw []byte
		raw, payload, err = readChunk(payload)
		if err != nil {
			return Snapshot{}, err
		}
		s.Buffers = append(s.Buffers, factory.OpenBuffer(raw))
	}
	return s, nil
}

// Save encodes a snapshot and writes it to the store under key.
func Save(ctx context.Context, store blobstore.Store, key string, s Snapshot, optFns ...Option) error {
	o := applyOptions(optFns)

	data, err := Encode(s, optFns...)
	if err != nil {
		return err
	}

	err = store.Put(ctx, key, data)
	o.logger.LogSnapshot(ctx, key, len(data), err)
	return err
}

// Load reads and decodes the snapshot stored under key.
func Load(ctx context.Context, store blobstore.Store, key string, optFns ...Option) (Snapshot, error) {
	o := applyOptions(optFns)

	data, err := store.Get(ctx, key)
	o.logger.LogSnapshot(ctx, key, len(data), err)
	if err != nil {
		return Snapshot{}, err
	}
	return Decode(data)
}

// SaveAll writes several snapshots concurrently. The first failure
// cancels the remaining uploads.
func SaveAll(ctx context.Context, store blobstore.Store, snaps map[string]Snapshot, optFns ...Option) error {
	o := applyOptions(optFns)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.parallelism)

	for key, s := range snaps {
		key, s := key, s
		g.Go(func() error {
			if err := Save(ctx, store, key, s, optFns...); err != nil {
				return fmt.Errorf("snapshot %q: %w", key, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func compress(payload []byte, c Compression) ([]byte, error) {
	switch c {
	case None:
		return payload, nil
	case Zstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd: %w", err)
		}
		defer func() { _ = enc.Close() }()
		return enc.EncodeAll(payload, nil), nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(payload); err != nil {
			return nil, fmt.Errorf("snapshot: lz4: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("snapshot: lz4: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadCompression, c)
	}
}

func decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Zstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("snapshot: zstd: %w", err)
		}
		return out, nil
	case LZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("snapshot: lz4: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrBadCompression, c)
	}
}

func writeUvarint(buf *bytes.Buffer, v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	buf.Write(tmp[:binary.PutUvarint(tmp[:], v)])
}

func writeChunk(buf *bytes.Buffer, data []byte) {
	writeUvarint(buf, uint64(len(data)))
	buf.Write(data)
}

func readUvarint(data []byte) (uint64, []byte, error) {
	v, n := binary.Uvarint(data)
	if n <= 0 {
		return 0, nil, errors.New("snapshot: truncated container")
	}
	return v, data[n:], nil
}

func readChunk(data []byte) ([]byte, []byte, error) {
	length, rest, err := readUvarint(data)
	if err != nil {
		return nil, nil, err
	}
	if uint64(len(rest)) < length {
		return nil, nil, errors.New("snapshot: truncated container")
	}
	return rest[:length], rest[length:], nil
}
