// Copyright (c) 2026 John Earle
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

package identity

import (
	"fmt"
	"sort"
)

// ReverseIndex maps a canonical name-string to the person id that owns
// it. It is the exact inverse of the union of all accepted name sets,
// read-only after construction.
type ReverseIndex map[string]string

// BuildReverseIndex inverts the per-person name sets into one global
// lookup table.
//
// Invariant: no name-string may be claimed by two person ids. A
// collision makes the whole identity mapping unusable, so it is a fatal
// configuration error reported with both claimants — never an implicit
// overwrite.
func BuildReverseIndex(sets map[string]NameSet) (ReverseIndex, error) {
	ids := make([]string, 0, len(sets))
	for id := range sets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	idx := make(ReverseIndex)
	total := 0
	for _, id := range ids {
		for _, name := range sets[id].Sorted() {
			if owner, ok := idx[name]; ok && owner != id {
				return nil, fmt.Errorf("reverse index collision: name %q claimed by both %q and %q", name, owner, id)
			}
			idx[name] = id
			total++
		}
	}

	if len(idx) != total {
		return nil, fmt.Errorf("reverse index inconsistent: %d entries for %d accepted names", len(idx), total)
	}
	return idx, nil
}
