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

import "errors"

// Domain validation errors
var (
	// ErrValidationFailed indicates malformed caller input.
	// Every validation error below wraps it.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidStall indicates a stall failed validation.
	ErrInvalidStall = errors.New("invalid stall")

	// ErrInvalidMenuItem indicates a menu item failed validation.
	ErrInvalidMenuItem = errors.New("invalid menu item")

	// ErrInvalidMenuCategory indicates a menu category failed validation.
	ErrInvalidMenuCategory = errors.New("invalid menu category")

	// ErrRatingOutOfRange indicates a submitted rating outside [1,5].
	ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

	// ErrEmptyField indicates a required text field is empty.
	ErrEmptyField = errors.New("field cannot be empty")

	// ErrInvalidURL indicates a field that must hold an absolute URL does not.
	ErrInvalidURL = errors.New("must be a valid URL")

	// ErrInvalidPrice indicates a non-positive price.
	ErrInvalidPrice = errors.New("price must be a positive number")
)
