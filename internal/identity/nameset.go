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
	"sort"
	"strings"
)

// NameSet is the set of canonical name-strings accepted as spellings of
// one person.
type NameSet map[string]struct{}

// NewNameSet builds a set from the given names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Sorted returns the set's names in lexicographic order, for
// deterministic iteration.
func (s NameSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// idSeparators are the characters that may split a person id into its
// surname fragment and the rest (e.g. "smith-j" -> "smith").
const idSeparators = "-._"

// surnameOf returns the person id's surname fragment: the text before
// the id's first separator, or the whole id when it has none.
func surnameOf(personID string) string {
	if i := strings.IndexAny(personID, idSeparators); i >= 0 {
		return personID[:i]
	}
	return personID
}

// filterBySurname prunes implausible candidates. With more than one
// candidate, only names containing the id's surname fragment as a
// substring survive. A sole candidate is kept unconditionally so the
// filter can never erase a person's only evidence.
//
// The substring test is deliberately naive: short surnames can match
// inside unrelated words. Downstream evidence sets were hand-validated
// against exactly this behaviour, so it must not be tightened.
func filterBySurname(personID string, cands []Candidate) []Candidate {
	if len(cands) <= 1 {
		return cands
	}
	// Candidate names are lowercase canonical keys, so the fragment is
	// lowercased before the containment test.
	surname := strings.ToLower(surnameOf(personID))
	kept := cands[:0:0]
	for _, c := range cands {
		if strings.Contains(c.Name, surname) {
			kept = append(kept, c)
		}
	}
	return kept
}

// InverseForm derives the swapped spelling of a canonical name:
// "lastname, firstname" becomes "firstname lastname" and vice versa,
// where a comma-less name treats its final whitespace token as the
// surname. Applying it twice returns the original (modulo whitespace),
// so expansion converges after one round.
func InverseForm(name string) string {
	if i := strings.Index(name, ","); i >= 0 {
		last := strings.TrimSpace(name[:i])
		first := strings.TrimSpace(name[i+1:])
		return strings.TrimSpace(first + " " + last)
	}
	fields := strings.Fields(name)
	if len(fields) < 2 {
		return name
	}
	last := fields[len(fields)-1]
	first := strings.Join(fields[:len(fields)-1], " ")
	return last + ", " + first
}

// expandVariants folds the retained candidates into a set containing
// both each name and its inverse spelling. Duplicates coalesce.
func expandVariants(cands []Candidate) NameSet {
	set := make(NameSet, len(cands)*2)
	for _, c := range cands {
		set[c.Name] = struct{}{}
		set[InverseForm(c.Name)] = struct{}{}
	}
	return set
}
