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

package storage

const (
	entityKeyPrefix = "e:"
	indexKeyPrefix  = "i:"
	keySeparator    = ":"
)

// EntityKey returns the storage key of one entity.
// Format: e:typeName:id
func EntityKey(typeName, id string) []byte {
	buf := make([]byte, 0, len(entityKeyPrefix)+len(typeName)+len(keySeparator)+len(id))
	buf = append(buf, entityKeyPrefix...)
	buf = append(buf, typeName...)
	buf = append(buf, keySeparator...)
	buf = append(buf, id...)
	return buf
}

// IndexKey returns the storage key of an entity type's ID index.
// Format: i:indexName
func IndexKey(indexName string) []byte {
	buf := make([]byte, 0, len(indexKeyPrefix)+len(indexName))
	buf = append(buf, indexKeyPrefix...)
	buf = append(buf, indexName...)
	return buf
}
