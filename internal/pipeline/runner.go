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

// Package pipeline runs the full resolution batch: identity mapping from
// sent-folder evidence, record resolution against the reverse index, and
// per-person time-series aggregation.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bcem/resolution/internal/identity"
	"github.com/bcem/resolution/internal/models"
	"github.com/bcem/resolution/internal/resolve"
	"github.com/bcem/resolution/internal/timeseries"
)

// RunnerConfig holds the resolution settings for a batch run.
type RunnerConfig struct {
	SentFolderLabels    []string
	MinSentEvidence     int
	MinEventsPerPerson  int
	FloorDate           int64 // epoch seconds
	ManualNameOverrides map[string][]string
}

// Result summarises a completed resolution run.
type Result struct {
	RunID              string
	People             int // distinct mailbox owners seen in the input
	Mapped             int // owners with an accepted name set
	ExcludedNoEvidence int // owners dropped for lack of sent-folder evidence
	Names              int // reverse index size
	Records            int
	ResolvedSenders    int
	UnresolvedSenders  int
	Retained           int // persons surviving the min-events threshold
	Series             map[string]models.PersonSeries
	Elapsed            time.Duration
}

// Runner performs the batch resolution pass.
type Runner struct {
	cfg RunnerConfig
}

// NewRunner creates a resolution runner.
func NewRunner(cfg RunnerConfig) *Runner {
	return &Runner{cfg: cfg}
}

// Run resolves the whole record table in one pass. The identity mapping
// is built in full before any record is resolved; a reverse-index
// collision aborts the run before resolution starts.
//
// Records are annotated in place, so the caller's slice carries the
// resolved ids after Run returns.
func (r *Runner) Run(ctx context.Context, records []models.Record) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()

	personIDs := distinctPersonIDs(records)

	slog.Info("starting resolution run",
		"run_id", runID,
		"records", len(records),
		"people", len(personIDs),
	)

	// Phase 1: identity mapping
	builder := identity.NewBuilder(identity.BuilderConfig{
		SentFolderLabels:    r.cfg.SentFolderLabels,
		MinSentEvidence:     r.cfg.MinSentEvidence,
		ManualNameOverrides: r.cfg.ManualNameOverrides,
	})
	sets, err := builder.BuildSets(personIDs, records)
	if err != nil {
		return nil, fmt.Errorf("build identity sets: %w", err)
	}

	index, err := identity.BuildReverseIndex(sets)
	if err != nil {
		return nil, fmt.Errorf("build reverse index: %w", err)
	}

	slog.Info("identity mapping built",
		"run_id", runID,
		"mapped", len(sets),
		"excluded", len(personIDs)-len(sets),
		"names", len(index),
	)

	result := &Result{
		RunID:              runID,
		People:             len(personIDs),
		Mapped:             len(sets),
		ExcludedNoEvidence: len(personIDs) - len(sets),
		Names:              len(index),
		Records:            len(records),
	}

	// Phase 2: record resolution
	resolver := resolve.NewResolver(index)
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := resolver.Annotate(&records[i]); err != nil {
			return nil, fmt.Errorf("resolve record %d: %w", i, err)
		}
		if records[i].ResolvedSenderID != nil {
			result.ResolvedSenders++
		} else {
			result.UnresolvedSenders++
		}
	}

	slog.Info("records resolved",
		"run_id", runID,
		"resolved_senders", result.ResolvedSenders,
		"unresolved_senders", result.UnresolvedSenders,
	)

	// Phase 3: aggregation
	agg := timeseries.NewAggregator(r.cfg.FloorDate, r.cfg.MinEventsPerPerson)
	result.Series = agg.Aggregate(records)
	result.Retained = len(result.Series)
	result.Elapsed = time.Since(start)

	slog.Info("resolution run complete",
		"run_id", runID,
		"retained", result.Retained,
		"elapsed", result.Elapsed,
	)

	return result, nil
}

// distinctPersonIDs returns the sorted set of mailbox owner ids in the
// input, so every phase iterates people in a stable order.
func distinctPersonIDs(records []models.Record) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range records {
		if r.PersonID == "" || seen[r.PersonID] {
			continue
		}
		seen[r.PersonID] = true
		ids = append(ids, r.PersonID)
	}
	sort.Strings(ids)
	return ids
}
