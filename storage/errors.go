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

import "errors"

var (
	// ErrNotFound indicates that the requested record was not found.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists indicates a create against an occupied key.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrStorageUnavailable indicates the substrate failed to read or write.
	// Callers decide whether to retry; the repository never does.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConflict indicates a transaction lost a race with a concurrent
	// writer of one of the keys it read.
	ErrConflict = errors.New("transaction conflict")

	// ErrStorageClosed indicates that the storage backend is closed.
	ErrStorageClosed = errors.New("storage is closed")

	// ErrInvalidID indicates an empty or mismatched entity ID.
	ErrInvalidID = errors.New("invalid entity id")

	// ErrSerializationFailed indicates a serialization/deserialization failure.
	ErrSerializationFailed = errors.New("serialization failed")

	// ErrTruncatedData indicates that data was truncated during reading.
	ErrTruncatedData = errors.New("truncated data")
)
