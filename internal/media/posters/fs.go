package posters

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cinevault/cinevault-server/internal/domain"
	"github.com/cinevault/cinevault-server/internal/id"
)

// FileStorage keeps each poster in <root>/<key>.png.
type FileStorage struct {
	root string
}

var _ Storage = (*FileStorage)(nil)

// NewFileStorage returns a FileStorage rooted at root. The directory is
// created on the first Put if it does not exist yet.
func NewFileStorage(root string) (*FileStorage, error) {
	if root == "" {
		return nil, errors.New("poster root cannot be empty")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve poster root: %w", err)
	}
	return &FileStorage{root: abs}, nil
}

// Path returns the file path of key.
func (s *FileStorage) Path(key string) string {
	return filepath.Join(s.root, key+domain.PosterExtension)
}

// Put writes data to a temporary file in the same directory and renames it
// over the destination.
func (s *FileStorage) Put(_ context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create poster directory: %w", err)
	}

	suffix, err := id.Generate("")
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.root, "."+suffix+".tmp")

	//#nosec G304 -- temp path is built from the poster root and a random id
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create temp poster: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp poster: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp poster: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp poster: %w", err)
	}

	if err := os.Rename(tmp, s.Path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace poster: %w", err)
	}
	return nil
}

// Open opens the poster file for reading.
func (s *FileStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	//#nosec G304 -- key is checked for path separators above
	f, err := os.Open(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("open poster: %w", err)
	}
	return f, nil
}

// Ping checks that the root is a directory, or can still be created.
func (s *FileStorage) Ping(context.Context) error {
	info, err := os.Stat(s.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("poster root %s is not a directory", s.root)
	}
	return nil
}

// Close is a no-op.
func (s *FileStorage) Close() error { return nil }
