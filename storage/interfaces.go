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

package storage

import "context"

// Substrate is the raw byte-oriented key-value store underneath the
// repositories. Implementations must be safe for concurrent use.
//
// Get, Set and Delete are only reachable through a transaction. Returning an
// error from fn discards the transaction; returning nil from an Update
// callback commits it.
type Substrate interface {
	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(tx Txn) error) error

	// Update runs fn in a read-write transaction and commits it when fn
	// returns nil. A commit that loses to a concurrent writer of a key read
	// by fn fails with ErrConflict and has no effect.
	Update(ctx context.Context, fn func(tx Txn) error) error

	// Close releases the substrate.
	Close() error
}

// Txn is a single substrate transaction.
type Txn interface {
	// Get returns a copy of the value stored under key, or ErrNotFound.
	Get(key []byte) ([]byte, error)

	// Set stores value under key.
	Set(key, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key []byte) error
}

// Codec converts typed records to and from their stored representation.
type Codec[T any] interface {
	Marshal(v T) ([]byte, error)
	Unmarshal(data []byte) (T, error)
}
