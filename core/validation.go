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
	"fmt"
	"math"
	"net/url"
	"strings"
)

// ValidateStallInput validates caller supplied stall fields.
//
// Validation rules:
//   - Name, Cuisine, Category and Description must not be empty
//   - ImageURL must be an absolute URL
//   - every category and item in Menu must be valid
//
// NOT validated (system managed):
//   - ID (assigned on create, taken from the path on update)
//   - Rating (reset on create, preserved on update)
func ValidateStallInput(input *StallInput) error {
	if input == nil {
		return fmt.Errorf("%w: %w: input is nil", ErrValidationFailed, ErrInvalidStall)
	}

	for _, field := range []struct {
		name  string
		value string
	}{
		{"name", input.Name},
		{"cuisine", input.Cuisine},
		{"category", input.Category},
		{"description", input.Description},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%w: %w: %s %w", ErrValidationFailed, ErrInvalidStall, field.name, ErrEmptyField)
		}
	}

	if !IsValidURL(input.ImageURL) {
		return fmt.Errorf("%w: %w: imageUrl %w", ErrValidationFailed, ErrInvalidStall, ErrInvalidURL)
	}

	for i := range input.Menu {
		if err := ValidateMenuCategory(&input.Menu[i]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMenuCategory validates a category and all of its items.
func ValidateMenuCategory(category *MenuCategory) error {
	if category == nil {
		return fmt.Errorf("%w: %w: category is nil", ErrValidationFailed, ErrInvalidMenuCategory)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: %w: name %w", ErrValidationFailed, ErrInvalidMenuCategory, ErrEmptyField)
	}
	for i := range category.Items {
		if err := ValidateMenuItem(&category.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMenuItem validates a single menu item.
// The item ID is not validated; NormalizeIncomingMenu deals with it.
func ValidateMenuItem(item *MenuItem) error {
	if item == nil {
		return fmt.Errorf("%w: %w: item is nil", ErrValidationFailed, ErrInvalidMenuItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: %w: name %w", ErrValidationFailed, ErrInvalidMenuItem, ErrEmptyField)
	}
	if strings.TrimSpace(item.Description) == "" {
		return fmt.Errorf("%w: %w: description %w", ErrValidationFailed, ErrInvalidMenuItem, ErrEmptyField)
	}
	if item.Price <= 0 {
		return fmt.Errorf("%w: %w: %w", ErrValidationFailed, ErrInvalidMenuItem, ErrInvalidPrice)
	}
	if !IsValidURL(item.ImageURL) {
		return fmt.Errorf("%w: %w: imageUrl %w", ErrValidationFailed, ErrInvalidMenuItem, ErrInvalidURL)
	}
	return nil
}

// ValidateRatingValue checks that a submitted score lies in [MinRating, MaxRating].
func ValidateRatingValue(v float64) error {
	if math.IsNaN(v) || v < MinRating || v > MaxRating {
		return fmt.Errorf("%w: %w: got %v", ErrValidationFailed, ErrRatingOutOfRange, v)
	}
	return nil
}

// IsValidURL reports whether s parses as an absolute URL with a host.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
