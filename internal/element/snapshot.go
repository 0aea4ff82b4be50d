/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package element

import (
	"encoding/json"
	"fmt"
)

// Snapshot is a complete, immutable-by-convention capture of one page's
// element list. Slice position is z-order; the front-most element is last.
// Guide objects never appear here, they live only in the scene.
type Snapshot struct {
	Page     int       `json:"page"`
	Elements []Element `json:"elements"`
}

// Clone returns a deep copy so history entries never alias live state.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Page: s.Page}
	if s.Elements != nil {
		out.Elements = make([]Element, len(s.Elements))
		copy(out.Elements, s.Elements)
	}
	return out
}

// Normalize rewrites each element's ZOrder field from its list position.
func (s *Snapshot) Normalize() {
	for i := range s.Elements {
		s.Elements[i].ZOrder = i
	}
}

// IndexOf returns the list position of the element with the given id, or -1.
func (s Snapshot) IndexOf(id string) int {
	for i := range s.Elements {
		if s.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

// Equal compares two snapshots element-by-element including order.
func (s Snapshot) Equal(o Snapshot) bool {
	if s.Page != o.Page || len(s.Elements) != len(o.Elements) {
		return false
	}
	for i := range s.Elements {
		if s.Elements[i] != o.Elements[i] {
			return false
		}
	}
	return true
}

// EncodeSnapshot serializes a snapshot to JSON. The encoding is the opaque
// blob handed to template persistence; ids, geometry, style, page and z-order
// all survive a decode round trip exactly.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	cp := s.Clone()
	cp.Normalize()
	if cp.Elements == nil {
		cp.Elements = []Element{}
	}
	b, err := json.Marshal(cp)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses a snapshot blob and validates every element.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	for i := range s.Elements {
		if err := s.Elements[i].Validate(); err != nil {
			return Snapshot{}, err
		}
	}
	s.Normalize()
	return s, nil
}
