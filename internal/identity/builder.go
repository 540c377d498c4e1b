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
	"log/slog"

	"github.com/bcem/resolution/internal/models"
)

// Builder assembles the accepted name set for every known person id:
// sent-folder evidence tally, surname filter, variant expansion, then
// manual overrides.
type Builder struct {
	evidence        *EvidenceBuilder
	minSentEvidence int
	overrides       map[string][]string
}

// BuilderConfig holds the identity-building configuration.
type BuilderConfig struct {
	SentFolderLabels []string
	MinSentEvidence  int
	// ManualNameOverrides fully replaces the algorithmic name set for the
	// listed person ids. It exists because the filter and expansion stages
	// misclassify a small fixed number of pathological spellings; the
	// corrections live in configuration, not code.
	ManualNameOverrides map[string][]string
}

// NewBuilder creates an identity builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{
		evidence:        NewEvidenceBuilder(cfg.SentFolderLabels),
		minSentEvidence: cfg.MinSentEvidence,
		overrides:       cfg.ManualNameOverrides,
	}
}

// BuildSets returns the final accepted name set per person id. Persons
// with insufficient sent-folder evidence are logged and excluded — a
// data-quality condition, not a failure. An error from the evidence
// scan means the pattern grammar is broken and aborts the build.
func (b *Builder) BuildSets(personIDs []string, records []models.Record) (map[string]NameSet, error) {
	sets := make(map[string]NameSet, len(personIDs))

	for _, id := range personIDs {
		if names, ok := b.overrides[id]; ok {
			sets[id] = NewNameSet(names...)
			continue
		}

		sent := b.evidence.SentRecordCount(id, records)
		if sent == 0 || sent < b.minSentEvidence {
			slog.Warn("person has no sent-folder evidence, excluding",
				"person_id", id,
				"sent_records", sent,
			)
			continue
		}

		cands, err := b.evidence.Candidates(id, records)
		if err != nil {
			return nil, err
		}
		sets[id] = expandVariants(filterBySurname(id, cands))
	}

	return sets, nil
}
