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

package indexed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/stallbook/storage"
)

// Entity is a record addressed by a string ID.
type Entity interface {
	EntityID() string
}

// Config describes the entity type a Repository stores.
type Config[T Entity] struct {
	// TypeName namespaces entity keys. Required.
	TypeName string

	// IndexName names the ID index record. Defaults to TypeName + "s".
	IndexName string

	// Zero is returned in place of a record whenever an operation fails.
	Zero T

	// Seed holds the records EnsureSeed writes into an empty repository,
	// in index order.
	Seed []T

	// Codec encodes records. Defaults to storage.MsgpackCodec.
	Codec storage.Codec[T]
}

// Repository stores entities of one type together with an ordered index
// of their IDs.
type Repository[T Entity] struct {
	substrate storage.Substrate
	codec     storage.Codec[T]
	typeName  string
	indexKey  []byte
	zero      T
	seed      []T
	logger    *slog.Logger
	metrics   *Metrics
	locks     *KeyLocks
	opts      options
}

// New creates a repository for the entity type described by cfg.
func New[T Entity](substrate storage.Substrate, cfg Config[T], opts ...Option) (*Repository[T], error) {
	if substrate == nil {
		return nil, ErrSubstrateRequired
	}
	if cfg.IndexName == "" {
		cfg.IndexName = cfg.TypeName + "s"
	}
	for _, name := range []string{cfg.TypeName, cfg.IndexName} {
		if name == "" || strings.Contains(name, ":") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTypeName, name)
		}
	}
	if cfg.Codec == nil {
		cfg.Codec = storage.MsgpackCodec[T]{}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.locks == nil {
		o.locks = NewKeyLocks()
	}

	return &Repository[T]{
		substrate: substrate,
		codec:     cfg.Codec,
		typeName:  cfg.TypeName,
		indexKey:  storage.IndexKey(cfg.IndexName),
		zero:      cfg.Zero,
		seed:      cfg.Seed,
		logger:    o.logger.With("type", cfg.TypeName),
		metrics:   o.metrics,
		locks:     o.locks,
		opts:      o,
	}, nil
}

// TypeName returns the entity type name.
func (r *Repository[T]) TypeName() string {
	return r.typeName
}

func (r *Repository[T]) entityKey(id string) []byte {
	return storage.EntityKey(r.typeName, id)
}

// Exists reports whether a record with the given ID is stored.
func (r *Repository[T]) Exists(ctx context.Context, id string) (exists bool, err error) {
	start := time.Now()
	defer func() { r.metrics.observe(r.typeName, "exists", start, err) }()

	err = r.substrate.View(ctx, func(tx storage.Txn) error {
		_, err := tx.Get(r.entityKey(id))
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})
	return exists, err
}

// Get returns the record stored under id, or storage.ErrNotFound.
func (r *Repository[T]) Get(ctx context.Context, id string) (result T, err error) {
	start := time.Now()
	defer func() { r.metrics.observe(r.typeName, "get", start, err) }()

	err = r.substrate.View(ctx, func(tx storage.Txn) error {
		var err error
		result, err = r.load(tx, id)
		return err
	})
	if err != nil {
		return r.zero, err
	}
	return result, nil
}

// Create stores a new record and appends its ID to the index.
// It fails with storage.ErrAlreadyExists when the ID is taken.
func (r *Repository[T]) Create(ctx context.Context, state T) (result T, err error) {
	start := time.Now()
	defer func() { r.metrics.observe(r.typeName, "create", start, err) }()

	id := state.EntityID()
	if id == "" {
		return r.zero, fmt.Errorf("%w: %s without id", storage.ErrInvalidID, r.typeName)
	}
	data, err := r.codec.Marshal(state)
	if err != nil {
		return r.zero, err
	}

	key := r.entityKey(id)
	defer r.locks.Lock(string(key))()
	defer r.locks.Lock(string(r.indexKey))()

	err = r.retryConflicts(ctx, "create", func() error {
		return r.substrate.Update(ctx, func(tx storage.Txn) error {
			_, err := tx.Get(key)
			if err == nil {
				return storage.ErrAlreadyExists
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			if err := tx.Set(key, data); err != nil {
				return err
			}
			return appendToIndex(tx, r.indexKey, id)
		})
	})
	if err != nil {
		return r.zero, err
	}
	r.logger.Debug("created", "id", id)
	return state, nil
}

// Save replaces the record stored under id. The index is not touched.
// state must carry the same ID.
func (r *Repository[T]) Save(ctx context.Context, id string, state T) (result T, err error) {
	start := time.Now()
	defer func() { r.metrics.observe(r.typeName, "save", start, err) }()

	if id == "" || state.EntityID() != id {
		return r.zero, fmt.Errorf("%w: save %s %q with state for %q", storage.ErrInvalidID, r.typeName, id, state.EntityID())
	}
	data, err := r.codec.Marshal(state)
	if err != nil {
		return r.zero, err
	}

	key := r.entityKey(id)
	defer r.locks.Lock(string(key))()

	err = r.retryConflicts(ctx, "save", func() error {
		return r.substrate.Update(ctx, func(tx storage.Txn) error {
			if _, err := tx.Get(key); err != nil {
				return err
			}
			return tx.Set(key, data)
		})
	})
	if err != nil {
		return r.zero, err
	}
	return state, nil
}

// Mutate loads the record stored under id, passes it through fn and stores
// the result. Concurrent calls for the same ID run one after another.
//
// An error from fn is returned unchanged and nothing is written. fn may be
// invoked again if the commit loses a race with another process, so it must
// be free of side effects.
func (r *Repository[T]) Mutate(ctx context.Context, id string, fn func(T) (T, error)) (result T, err error) {
	start := time.Now()
	defer func() { r.metrics.observe(r.typeName, "mutate", start, err) }()

	key := r.entityKey(id)
	defer r.locks.Lock(string(key))()

	err = r.retryConflicts(ctx, "mutate", func() error {
		return r.substrate.Update(ctx, func(tx storage.Txn) error {
			current, err := r.load(tx, id)
			if err != nil {
				return err
			}
			next, err := fn(current)
			if err != nil {
				return err
			}
			if next.EntityID() != id {
				return fmt.Errorf("%w: mutate of %s %q produced %q", storage.ErrInvalidID, r.typeName, id, next.EntityID())
			}
			data, err := r.codec.Marshal(next)
			if err != nil {
				return err
			}
			if err := tx.Set(key, data); err != nil {
				return err
			}
			result = next
			return nil
		})
	})
	if err != nil {
		return r.zero, err
	}
	return result, nil
}

// Delete removes the record stored under id and its index entry.
// It reports whether a record existed. An index entry left behind by an
// earlier partial write is removed even when the record is already gone.
func (r *Repository[T]) Delete(ctx context.Context, id string) (existed bool, err error) {
	start := time.Now()
	defer func() { r.metrics.observe(r.typeName, "delete", start, err) }()

	key := r.entityKey(id)
	defer r.locks.Lock(string(key))()
	defer r.locks.Lock(string(r.indexKey))()

	err = r.retryConflicts(ctx, "delete", func() error {
		existed = false
		return r.substrate.Update(ctx, func(tx storage.Txn) error {
			_, err := tx.Get(key)
			switch {
			case err == nil:
				existed = true
				if err := tx.Delete(key); err != nil {
					return err
				}
			case !errors.Is(err, storage.ErrNotFound):
				return err
			}
			changed, err := removeFromIndex(tx, r.indexKey, id)
			if err != nil {
				return err
			}
			if changed && !existed {
				r.logger.Debug("removed dangling index entry", "id", id)
			}
			return nil
		})
	})
	if err != nil {
		return false, err
	}
	return existed, nil
}

// List returns every indexed record in index order. IDs whose record is
// missing are skipped.
func (r *Repository[T]) List(ctx context.Context) (result []T, err error) {
	start := time.Now()
	defer func() { r.metrics.observe(r.typeName, "list", start, err) }()

	err = r.substrate.View(ctx, func(tx storage.Txn) error {
		ids, err := readIndex(tx, r.indexKey)
		if err != nil {
			return err
		}
		result = make([]T, 0, len(ids))
		for _, id := range ids {
			record, err := r.load(tx, id)
			if errors.Is(err, storage.ErrNotFound) {
				r.logger.Debug("skipping dangling index entry", "id", id)
				continue
			}
			if err != nil {
				return err
			}
			result = append(result, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of IDs in the index.
func (r *Repository[T]) Count(ctx context.Context) (n int, err error) {
	err = r.substrate.View(ctx, func(tx storage.Txn) error {
		ids, err := readIndex(tx, r.indexKey)
		n = len(ids)
		return err
	})
	return n, err
}

// EnsureSeed writes the configured seed records when the index is empty.
// It reports whether this call wrote them. Concurrent callers seed at most
// once.
func (r *Repository[T]) EnsureSeed(ctx context.Context) (seeded bool, err error) {
	if len(r.seed) == 0 {
		return false, nil
	}
	start := time.Now()
	defer func() { r.metrics.observe(r.typeName, "seed", start, err) }()

	ids := make([]string, len(r.seed))
	records := make([][]byte, len(r.seed))
	seen := make(map[string]struct{}, len(r.seed))
	for i, s := range r.seed {
		id := s.EntityID()
		if id == "" {
			return false, fmt.Errorf("%w: %s seed record %d has no id", storage.ErrInvalidID, r.typeName, i)
		}
		if _, dup := seen[id]; dup {
			return false, fmt.Errorf("%w: duplicate %s seed id %q", storage.ErrInvalidID, r.typeName, id)
		}
		seen[id] = struct{}{}
		data, err := r.codec.Marshal(s)
		if err != nil {
			return false, err
		}
		ids[i] = id
		records[i] = data
	}

	defer r.locks.Lock(string(r.indexKey))()

	err = r.retryConflicts(ctx, "seed", func() error {
		seeded = false
		return r.substrate.Update(ctx, func(tx storage.Txn) error {
			existing, err := readIndex(tx, r.indexKey)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return nil
			}
			for i, id := range ids {
				if err := tx.Set(r.entityKey(id), records[i]); err != nil {
					return err
				}
			}
			if err := writeIndex(tx, r.indexKey, ids); err != nil {
				return err
			}
			seeded = true
			return nil
		})
	})
	if err != nil {
		return false, err
	}
	if seeded {
		r.metrics.seed(r.typeName, len(ids))
		r.logger.Info("seeded repository", "records", len(ids))
	}
	return seeded, nil
}

func (r *Repository[T]) load(tx storage.Txn, id string) (T, error) {
	data, err := tx.Get(r.entityKey(id))
	if err != nil {
		return r.zero, err
	}
	return r.codec.Unmarshal(data)
}
