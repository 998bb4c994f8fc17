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

// Package indexed provides Repository, a typed store for one entity type
// kept on top of a storage.Substrate.
//
// Every entity lives under its own key. Alongside the entities each
// repository keeps an index record: the ordered list of IDs that List and
// Count walk. Creating an entity appends its ID to the index; deleting it
// removes the ID. Both records change in one substrate transaction, so a
// reader never sees an indexed ID without its entity.
//
// # Concurrency
//
// Writes to the same entity are serialized by a per-key lock and, beneath
// it, by the substrate's optimistic transactions. Mutate therefore never
// loses an update: concurrent read-modify-write calls against one ID apply
// one after another, each seeing the result of the previous one. Writes to
// different IDs proceed in parallel except for the short index update.
//
// # Seeding
//
// A repository may carry seed records. EnsureSeed writes them, in order,
// when the index is empty and does nothing otherwise. It is safe to call
// from any number of goroutines at once.
package indexed
