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

// Package storage provides the storage abstraction layer for stallbook.
//
// This package defines the raw key-value substrate contract, the storage key
// scheme, the record codecs and the error kinds shared by every repository.
// It allows for different substrates (BadgerDB, in-memory, fault injecting
// test doubles) to be used interchangeably underneath the repositories in
// package indexed.
//
// # Key Scheme
//
// Every entity is stored under a key derived from its entity type name and
// ID; every entity type has one index record holding the ordered list of IDs
// that currently exist:
//
//	e:stall:0b9f4a2e-6a55-4c39-9a8e-3f3e7f0f1d2c   -> msgpack encoded Stall
//	i:stalls                                       -> mus encoded []string
//
// # Error Kinds
//
//   - ErrNotFound and ErrAlreadyExists are expected outcomes callers branch on
//   - ErrStorageUnavailable wraps every substrate I/O failure
//   - ErrConflict reports a lost optimistic transaction; repositories retry it
//
// # Thread Safety
//
// All substrate implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// Substrate methods accept context.Context; a context that is already done
// fails the call before any transaction starts.
package storage
