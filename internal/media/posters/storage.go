// Package posters stores poster images as opaque blobs addressed by key.
//
// Three backends share the Storage contract: the local filesystem, an
// embedded Badger database and Redis. Every Put replaces the whole blob
// atomically, so a concurrent Open sees either the old or the new payload.
package posters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotFound is returned by Open when no blob exists for the key.
var ErrNotFound = errors.New("poster not found")

// Storage is a keyed blob store for poster images.
type Storage interface {
	// Put replaces the blob at key with data.
	Put(ctx context.Context, key string, data []byte) error
	// Open returns a reader over the blob at key, or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Ping reports whether the backend is usable.
	Ping(ctx context.Context) error
	// Close releases the backend.
	Close() error
}

// checkKey rejects keys that could escape a directory or namespace.
func checkKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, "/\\\x00") {
		return fmt.Errorf("invalid poster key %q", key)
	}
	return nil
}
