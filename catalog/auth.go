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
	"crypto/subtle"

	"github.com/go-crypt/x/blake2b"
)

// passwordDigest hashes a password to a fixed-size BLAKE2b-256 digest.
func passwordDigest(password string) []byte {
	h, _ := blake2b.New(32, nil) // unkeyed, never fails
	h.Write([]byte(password))
	return h.Sum(nil)
}

// passwordsMatch compares two passwords in time independent of where they differ.
func passwordsMatch(stored, supplied string) bool {
	return subtle.ConstantTimeCompare(passwordDigest(stored), passwordDigest(supplied)) == 1
}
