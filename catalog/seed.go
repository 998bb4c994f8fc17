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

import "github.com/poiesic/stallbook/core"

// DefaultAdminID is the ID of the admin account created on first login.
const DefaultAdminID = "default-admin"

// DefaultAdmins returns the admin accounts seeded into an empty admin store.
func DefaultAdmins() []core.AdminUser {
	return []core.AdminUser{
		{ID: DefaultAdminID, Username: "admin", Password: "password"},
	}
}

// DefaultStalls returns the catalog seeded into an empty stall store.
// IDs are fixed so a reseeded catalog keeps its links.
func DefaultStalls() []core.Stall {
	return []core.Stall{
		{
			ID:          "5b0c7a52-1f0e-4c1a-9d5e-2a6f4e1b7c01",
			Name:        "Ah Seng Chicken Rice",
			Cuisine:     "Hainanese",
			Category:    "Rice",
			Description: "Poached chicken over fragrant rice with chilli and ginger.",
			ImageURL:    "https://images.stallbook.dev/stalls/ah-seng.jpg",
			Rating:      core.Rating{Average: 4.5, Count: 12},
			Menu: []core.MenuCategory{
				{
					ID:   "0e9d5c6a-3b41-4f27-8c11-6d2e9a0b4c11",
					Name: "Mains",
					Items: []core.MenuItem{
						{
							ID:          "a1f4c2d3-5e6b-4a7c-8d9e-0f1a2b3c4d21",
							Name:        "Steamed Chicken Rice",
							Description: "Silky poached chicken, rice cooked in chicken stock.",
							Price:       5.5,
							ImageURL:    "https://images.stallbook.dev/items/steamed-chicken-rice.jpg",
							Rating:      core.Rating{Average: 4.6, Count: 8},
						},
						{
							ID:          "b2e5d3c4-6f7a-4b8d-9e0f-1a2b3c4d5e22",
							Name:        "Roasted Chicken Rice",
							Description: "Crisp-skinned roast chicken with dark soy.",
							Price:       5.5,
							ImageURL:    "https://images.stallbook.dev/items/roasted-chicken-rice.jpg",
							Rating:      core.Rating{Average: 4.3, Count: 4},
						},
					},
				},
				{
					ID:   "1f0e6d7b-4c52-4a38-9d22-7e3f0b1c5d12",
					Name: "Sides",
					Items: []core.MenuItem{
						{
							ID:          "c3f6e4d5-7a8b-4c9e-8f1a-2b3c4d5e6f23",
							Name:        "Braised Egg",
							Description: "Soy braised egg.",
							Price:       1,
							ImageURL:    "https://images.stallbook.dev/items/braised-egg.jpg",
						},
					},
				},
			},
		},
		{
			ID:          "6c1d8b63-2a1f-4d2b-8e6f-3b7a5f2c8d02",
			Name:        "Mak's Laksa",
			Cuisine:     "Peranakan",
			Category:    "Noodles",
			Description: "Coconut curry laksa with cockles and fishcake.",
			ImageURL:    "https://images.stallbook.dev/stalls/maks-laksa.jpg",
			Rating:      core.Rating{Average: 4.2, Count: 9},
			Menu: []core.MenuCategory{
				{
					ID:   "2a1f7e8c-5d63-4b49-8e33-8f4a1c2d6e13",
					Name: "Noodles",
					Items: []core.MenuItem{
						{
							ID:          "d4a7f5e6-8b9c-4d0f-9a2b-3c4d5e6f7a24",
							Name:        "Laksa",
							Description: "Thick bee hoon in spicy coconut broth.",
							Price:       6,
							ImageURL:    "https://images.stallbook.dev/items/laksa.jpg",
							Rating:      core.Rating{Average: 4.2, Count: 9},
						},
					},
				},
			},
		},
		{
			ID:          "7d2e9c74-3b20-4e3c-9f70-4c8b6a3d9e03",
			Name:        "Kopi Corner",
			Cuisine:     "Local",
			Category:    "Drinks",
			Description: "Traditional coffee, tea and toast.",
			ImageURL:    "https://images.stallbook.dev/stalls/kopi-corner.jpg",
			Menu: []core.MenuCategory{
				{
					ID:   "3b2a8f9d-6e74-4c5a-9f44-9a5b2d3e7f14",
					Name: "Drinks",
					Items: []core.MenuItem{
						{
							ID:          "e5b8a6f7-9c0d-4e1a-8b3c-4d5e6f7a8b25",
							Name:        "Kopi O",
							Description: "Black coffee with sugar.",
							Price:       1.4,
							ImageURL:    "https://images.stallbook.dev/items/kopi-o.jpg",
						},
						{
							ID:          "f6c9b7a8-0d1e-4f2b-9c4d-5e6f7a8b9c26",
							Name:        "Teh Tarik",
							Description: "Pulled milk tea.",
							Price:       1.6,
							ImageURL:    "https://images.stallbook.dev/items/teh-tarik.jpg",
						},
					},
				},
			},
		},
	}
}
