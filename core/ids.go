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

package core

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// CategoryPlaceholderPrefix marks category IDs minted by a client before persistence.
	CategoryPlaceholderPrefix = "temp-cat-"
	// ItemPlaceholderPrefix marks item IDs minted by a client before persistence.
	ItemPlaceholderPrefix = "temp-"

	canonicalUUIDLen = 36
)

// NewID returns a fresh random (version 4) UUID string.
func NewID() string {
	return uuid.NewString()
}

// IsCanonicalUUID reports whether id is a UUID in its 36 character hyphenated
// form. uuid.Parse alone also accepts URN, braced and unhyphenated forms.
func IsCanonicalUUID(id string) bool {
	if len(id) != canonicalUUIDLen {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// IsPlaceholderCategoryID reports whether a category ID was minted client side.
func IsPlaceholderCategoryID(id string) bool {
	return strings.HasPrefix(id, CategoryPlaceholderPrefix)
}

// IsPlaceholderItemID reports whether an item ID was minted client side.
func IsPlaceholderItemID(id string) bool {
	return strings.HasPrefix(id, ItemPlaceholderPrefix)
}
