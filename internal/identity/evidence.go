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

// Package identity builds the per-person accepted name sets and the
// global reverse lookup table from within-dataset evidence: the name
// spellings a person uses in the sender field of their own sent mail.
package identity

import (
	"sort"

	"github.com/bcem/resolution/internal/models"
	"github.com/bcem/resolution/internal/nameparse"
)

// Candidate is a canonical name with its sent-folder occurrence count.
type Candidate struct {
	Name  string
	Count int
}

// EvidenceBuilder tallies the canonical names appearing in the sender
// fields of a person's own sent-class records.
type EvidenceBuilder struct {
	sentFolders map[string]bool
}

// NewEvidenceBuilder creates an evidence builder for the given set of
// sent-class folder labels.
func NewEvidenceBuilder(sentLabels []string) *EvidenceBuilder {
	set := make(map[string]bool, len(sentLabels))
	for _, l := range sentLabels {
		set[l] = true
	}
	return &EvidenceBuilder{sentFolders: set}
}

// SentRecordCount returns how many of the person's records come from a
// sent-class folder. Zero means the person has no evidence at all.
func (b *EvidenceBuilder) SentRecordCount(personID string, records []models.Record) int {
	n := 0
	for _, r := range records {
		if r.PersonID == personID && b.sentFolders[r.Folder] {
			n++
		}
	}
	return n
}

// Candidates returns the person's canonical sender names ranked by
// descending occurrence count. Ties keep first-encountered order: the
// tally is built as an explicit (name, count) sequence rather than a
// bare map so the ranking is deterministic.
//
// A canonicalisation failure indicates a broken pattern grammar and is
// returned as-is; it must not be swallowed per-record.
func (b *EvidenceBuilder) Candidates(personID string, records []models.Record) ([]Candidate, error) {
	counts := make(map[string]int)
	var order []string

	for _, r := range records {
		if r.PersonID != personID || !b.sentFolders[r.Folder] {
			continue
		}
		for _, m := range nameparse.Matches(r.SenderField) {
			key, err := nameparse.Canonical(m)
			if err != nil {
				return nil, err
			}
			if _, seen := counts[key]; !seen {
				order = append(order, key)
			}
			counts[key]++
		}
	}

	out := make([]Candidate, 0, len(order))
	for _, name := range order {
		out = append(out, Candidate{Name: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out, nil
}
