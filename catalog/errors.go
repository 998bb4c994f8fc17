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

package catalog

import (
	"errors"
	"fmt"

	"github.com/poiesic/stallbook/storage"
)

var (
	// ErrStallNotFound indicates the addressed stall does not exist.
	ErrStallNotFound = fmt.Errorf("stall %w", storage.ErrNotFound)

	// ErrMenuItemNotFound indicates the stall has no menu item with the given ID.
	ErrMenuItemNotFound = fmt.Errorf("menu item %w", storage.ErrNotFound)

	// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrStallStoreRequired is returned when a stall store is not provided.
	ErrStallStoreRequired = errors.New("stall store required")

	// ErrAdminStoreRequired is returned when an admin store is not provided.
	ErrAdminStoreRequired = errors.New("admin store required")

	// ErrServiceRequired is returned when an importer is built without a service.
	ErrServiceRequired = errors.New("catalog service required")
)
