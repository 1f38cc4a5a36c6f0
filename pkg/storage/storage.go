// Package storage abstracts file persistence behind a small interface so
// the CLI can fetch audio inputs from, and persist transcripts to, either
// the local filesystem or an S3-compatible object store.
package storage

import (
	"context"
	"io"
)

// Store reads and writes named files. Names use forward slashes and are
// relative to the store's root. Implementations must be safe for concurrent
// use.
type Store interface {
	// Read opens the named file. A missing file yields an error satisfying
	// errors.Is(err, fs.ErrNotExist).
	Read(ctx context.Context, name string) (io.ReadCloser, error)

	// Write creates or truncates the named file, creating parents as
	// needed. Data is not durable until Close returns nil.
	Write(ctx context.Context, name string) (io.WriteCloser, error)

	// Exists reports whether name is present in the store.
	Exists(ctx context.Context, name string) (bool, error)

	// Delete removes the named file. Deleting a missing file is not an
	// error.
	Delete(ctx context.Context, name string) error
}
