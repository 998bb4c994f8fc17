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

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/vmihailenco/msgpack/v5"
)

// MarshalIndex serializes an ordered ID list to bytes.
// Layout: varint count followed by that many length-prefixed strings.
func MarshalIndex(ids []string) []byte {
	size := varint.Int.Size(len(ids))
	for _, id := range ids {
		size += ord.String.Size(id)
	}
	buf := make([]byte, size)
	n := varint.Int.Marshal(len(ids), buf)
	for _, id := range ids {
		n += ord.String.Marshal(id, buf[n:])
	}
	return buf
}

// UnmarshalIndex deserializes an ordered ID list from bytes.
// An empty input decodes to an empty list.
func UnmarshalIndex(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	count, n, err := varint.Int.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: index length: %w", ErrSerializationFailed, err)
	}
	// every entry takes at least one byte
	if count < 0 || count > len(data)-n {
		return nil, fmt.Errorf("%w: index length %d", ErrTruncatedData, count)
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		id, m, err := ord.String.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: index entry %d: %w", ErrSerializationFailed, i, err)
		}
		n += m
		ids = append(ids, id)
	}
	return ids, nil
}

// MsgpackCodec encodes records with msgpack using their msgpack struct tags.
type MsgpackCodec[T any] struct{}

var _ Codec[struct{}] = MsgpackCodec[struct{}]{}

// Marshal serializes v to bytes.
func (MsgpackCodec[T]) Marshal(v T) ([]byte, error) {
	data, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// Unmarshal deserializes a record from bytes.
func (MsgpackCodec[T]) Unmarshal(data []byte) (T, error) {
	var v T
	if err := msgpack.Unmarshal(data, &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return v, nil
}
