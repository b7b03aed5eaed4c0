package posters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const badgerPrefix = "poster:"

// BadgerStorage keeps posters in an embedded Badger database.
type BadgerStorage struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ Storage = (*BadgerStorage)(nil)

// NewBadgerStorage opens (or creates) a Badger database at path.
func NewBadgerStorage(path string, logger *slog.Logger) (*BadgerStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	logger.Info("poster database opened", "path", path)
	return &BadgerStorage{db: db, logger: logger}, nil
}

// Put stores data under key in a single transaction.
func (s *BadgerStorage) Put(_ context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerPrefix+key), data)
	})
}

// Open returns a copy of the stored value.
func (s *BadgerStorage) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read poster: %w", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Ping reports whether the database is still open.
func (s *BadgerStorage) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

// Close closes the database.
func (s *BadgerStorage) Close() error {
	return s.db.Close()
}
