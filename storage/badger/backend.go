// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/stallbook/storage"
)

// Backend wraps a BadgerDB instance and implements storage.Substrate.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ storage.Substrate = (*Backend)(nil)

// Option configures a Backend.
type Option func(*backendOptions)

type backendOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger used by the backend and by BadgerDB itself.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *backendOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// OpenBackend opens a BadgerDB database at the specified path.
// Creates the directory if it doesn't exist. When inMemory is true the path
// is ignored and nothing touches disk.
func OpenBackend(filePath string, inMemory bool, opts ...Option) (*Backend, error) {
	bo := &backendOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(bo)
	}

	var dbOpts badger.Options
	if inMemory {
		dbOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDir(filePath); err != nil {
			return nil, err
		}
		dbOpts = badger.DefaultOptions(filePath)
	}

	dbOpts.Logger = &badgerLoggerAdapter{logger: bo.logger.With("component", "badger")}
	dbOpts.Compression = options.None

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	return &Backend{
		db:     db,
		logger: bo.logger,
	}, nil
}

func ensureDir(filePath string) error {
	info, err := os.Stat(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		if err := os.MkdirAll(filePath, 0755); err != nil {
			return err
		}
		info, err = os.Stat(filePath)
		if err != nil {
			return err
		}
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filePath)
	}
	return nil
}

// Close closes the BadgerDB database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed returns true if the database is closed.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx executes a function within a BadgerDB transaction.
// If isWrite is true, creates a read-write transaction.
// The transaction is automatically discarded once fn returns; fn must call
// Commit itself to persist writes.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// View runs fn in a read-only transaction.
func (b *Backend) View(ctx context.Context, fn func(tx storage.Txn) error) error {
	if err := b.ready(ctx); err != nil {
		return err
	}
	return b.WithTx(func(tx *badger.Txn) error {
		return fn(&txn{tx: tx})
	}, false)
}

// Update runs fn in a read-write transaction and commits it if fn succeeds.
func (b *Backend) Update(ctx context.Context, fn func(tx storage.Txn) error) error {
	if err := b.ready(ctx); err != nil {
		return err
	}
	return b.WithTx(func(tx *badger.Txn) error {
		if err := fn(&txn{tx: tx}); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return mapError(err)
		}
		return nil
	}, true)
}

func (b *Backend) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.db.IsClosed() {
		return fmt.Errorf("%w: %w", storage.ErrStorageUnavailable, storage.ErrStorageClosed)
	}
	return nil
}

// txn adapts a BadgerDB transaction to storage.Txn.
type txn struct {
	tx *badger.Txn
}

func (t *txn) Get(key []byte) ([]byte, error) {
	item, err := t.tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, mapError(err)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, mapError(err)
	}
	return value, nil
}

func (t *txn) Set(key, value []byte) error {
	return mapError(t.tx.Set(key, value))
}

func (t *txn) Delete(key []byte) error {
	return mapError(t.tx.Delete(key))
}

// mapError converts BadgerDB errors into storage error kinds.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("%w: %w", storage.ErrConflict, err)
	default:
		return fmt.Errorf("%w: %w", storage.ErrStorageUnavailable, err)
	}
}
