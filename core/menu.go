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

// NormalizeIncomingMenu replaces client-minted IDs with fresh UUIDs before a
// menu is persisted.
//
// Category IDs are replaced only when they carry CategoryPlaceholderPrefix.
// Item IDs are replaced when they carry ItemPlaceholderPrefix or are not a
// canonical UUID. Any other ID is trusted as is, including client supplied
// IDs that merely look like UUIDs.
//
// The input is not modified. Applying the function to its own output
// changes nothing.
func NormalizeIncomingMenu(menu []MenuCategory) []MenuCategory {
	if menu == nil {
		return nil
	}
	out := make([]MenuCategory, len(menu))
	for i, category := range menu {
		out[i] = category
		if IsPlaceholderCategoryID(category.ID) {
			out[i].ID = NewID()
		}
		if category.Items == nil {
			continue
		}
		items := make([]MenuItem, len(category.Items))
		for j, item := range category.Items {
			items[j] = item
			if IsPlaceholderItemID(item.ID) || !IsCanonicalUUID(item.ID) {
				items[j].ID = NewID()
			}
		}
		out[i].Items = items
	}
	return out
}
