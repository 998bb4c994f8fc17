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
	"errors"
	"fmt"
	"slices"

	"github.com/poiesic/stallbook/storage"
)

// readIndex loads the ordered ID list stored under indexKey.
// A missing index record is an empty index.
func readIndex(tx storage.Txn, indexKey []byte) ([]string, error) {
	data, err := tx.Get(indexKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	ids, err := storage.UnmarshalIndex(data)
	if err != nil {
		return nil, fmt.Errorf("%w: index %s: %w", storage.ErrSerializationFailed, indexKey, err)
	}
	return ids, nil
}

// writeIndex replaces the ID list stored under indexKey.
func writeIndex(tx storage.Txn, indexKey []byte, ids []string) error {
	return tx.Set(indexKey, storage.MarshalIndex(ids))
}

// appendToIndex adds id at the end of the index unless it is already there.
func appendToIndex(tx storage.Txn, indexKey []byte, id string) error {
	ids, err := readIndex(tx, indexKey)
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return writeIndex(tx, indexKey, append(ids, id))
}

// removeFromIndex drops every occurrence of id from the index.
// It reports whether the index changed.
func removeFromIndex(tx storage.Txn, indexKey []byte, id string) (bool, error) {
	ids, err := readIndex(tx, indexKey)
	if err != nil {
		return false, err
	}
	kept := slices.DeleteFunc(slices.Clone(ids), func(v string) bool { return v == id })
	if len(kept) == len(ids) {
		return false, nil
	}
	return true, writeIndex(tx, indexKey, kept)
}
