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

// Rating is a running mean over submitted scores.
// Count is the number of scores ever submitted; Average is 0 while Count is 0.
type Rating struct {
	Average float64 `json:"average" msgpack:"average"`
	Count   int     `json:"count" msgpack:"count"`
}

// MenuItem is a single dish offered by a stall.
type MenuItem struct {
	ID          string  `json:"id" msgpack:"id"`
	Name        string  `json:"name" msgpack:"name"`
	Description string  `json:"description" msgpack:"description"`
	Price       float64 `json:"price" msgpack:"price"`
	ImageURL    string  `json:"imageUrl" msgpack:"imageUrl"`
	Rating      Rating  `json:"rating" msgpack:"rating"`
}

// MenuCategory groups menu items. Items are owned exclusively by the category.
type MenuCategory struct {
	ID    string     `json:"id" msgpack:"id"`
	Name  string     `json:"name" msgpack:"name"`
	Items []MenuItem `json:"items" msgpack:"items"`
}

// Stall is a food stall with its nested menu.
type Stall struct {
	ID          string         `json:"id" msgpack:"id"`
	Name        string         `json:"name" msgpack:"name"`
	Cuisine     string         `json:"cuisine" msgpack:"cuisine"`
	Category    string         `json:"category" msgpack:"category"`
	Description string         `json:"description" msgpack:"description"`
	ImageURL    string         `json:"imageUrl" msgpack:"imageUrl"`
	Rating      Rating         `json:"rating" msgpack:"rating"`
	Menu        []MenuCategory `json:"menu" msgpack:"menu"`
}

// EntityID returns the stall's storage identifier.
func (s Stall) EntityID() string { return s.ID }

// MenuItemCount returns the number of items across all categories.
func (s Stall) MenuItemCount() int {
	n := 0
	for _, category := range s.Menu {
		n += len(category.Items)
	}
	return n
}

// Summary returns the listing view of the stall.
func (s Stall) Summary() StallSummary {
	return StallSummary{
		ID:            s.ID,
		Name:          s.Name,
		Cuisine:       s.Cuisine,
		Category:      s.Category,
		Description:   s.Description,
		ImageURL:      s.ImageURL,
		Rating:        s.Rating,
		MenuItemCount: s.MenuItemCount(),
	}
}

// StallSummary is a stall without its menu, as shown in listings.
type StallSummary struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Cuisine       string `json:"cuisine"`
	Category      string `json:"category"`
	Description   string `json:"description"`
	ImageURL      string `json:"imageUrl"`
	Rating        Rating `json:"rating"`
	MenuItemCount int    `json:"menuItemCount"`
}

// StallInput carries the caller-editable fields of a stall.
// ID and Rating are always system managed.
type StallInput struct {
	Name        string         `json:"name"`
	Cuisine     string         `json:"cuisine"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	ImageURL    string         `json:"imageUrl"`
	Menu        []MenuCategory `json:"menu"`
}

// AdminUser is an account allowed to manage the catalog.
type AdminUser struct {
	ID       string `json:"id" msgpack:"id"`
	Username string `json:"username" msgpack:"username"`
	Password string `json:"password" msgpack:"password"`
}

// EntityID returns the admin user's storage identifier.
func (u AdminUser) EntityID() string { return u.ID }

// Clone returns a deep copy of the stall so callers can edit the menu
// without touching shared slices.
func (s Stall) Clone() Stall {
	out := s
	if s.Menu != nil {
		out.Menu = make([]MenuCategory, len(s.Menu))
		for i, category := range s.Menu {
			out.Menu[i] = category
			if category.Items != nil {
				out.Menu[i].Items = append([]MenuItem(nil), category.Items...)
			}
		}
	}
	return out
}
