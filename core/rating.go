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

import "math"

const (
	// MinRating is the lowest score a caller may submit.
	MinRating = 1
	// MaxRating is the highest score a caller may submit.
	MaxRating = 5
)

// CalculateNewRating folds one submitted score into a running rating.
// The new average is rounded to two decimals, half away from zero.
func CalculateNewRating(current Rating, submitted float64) Rating {
	count := current.Count + 1
	average := (current.Average*float64(current.Count) + submitted) / float64(count)
	return Rating{
		Average: Round2(average),
		Count:   count,
	}
}

// Round2 rounds v to two decimal places, ties away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ApplyMenuItemRating folds submitted into the rating of the first item whose
// ID matches itemID, scanning categories in order. It reports whether an item
// was found; when none is, the stall is returned unchanged.
func ApplyMenuItemRating(stall Stall, itemID string, submitted float64) (Stall, bool) {
	for ci, category := range stall.Menu {
		for ii, item := range category.Items {
			if item.ID != itemID {
				continue
			}
			out := stall.Clone()
			out.Menu[ci].Items[ii].Rating = CalculateNewRating(item.Rating, submitted)
			return out, true
		}
	}
	return stall, false
}
