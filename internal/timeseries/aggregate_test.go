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

package timeseries

import (
	"testing"

	"github.com/bcem/resolution/internal/models"
)

func resolvedRecords(personID string, stamps ...int64) []models.Record {
	out := make([]models.Record, 0, len(stamps))
	for _, ts := range stamps {
		id := personID
		out = append(out, models.Record{ResolvedSenderID: &id, Timestamp: ts})
	}
	return out
}

// TestAggregate_DedupSortFloor verifies duplicates are removed,
// timestamps are sorted ascending, and values strictly below the floor
// are dropped.
func TestAggregate_DedupSortFloor(t *testing.T) {
	records := resolvedRecords("smith-j", 100, 100, 200, 50)

	agg := NewAggregator(120, 0)
	series := agg.Aggregate(records)

	ps, ok := series["smith-j"]
	if !ok {
		t.Fatal("expected a series for smith-j")
	}
	if ps.Count != 1 || len(ps.Timestamps) != 1 || ps.Timestamps[0] != 200 {
		t.Errorf("expected [200], got %+v", ps)
	}
}

// TestAggregate_MinEventsThreshold verifies a person whose event count
// falls at or below the threshold is dropped entirely.
func TestAggregate_MinEventsThreshold(t *testing.T) {
	records := resolvedRecords("smith-j", 100, 100, 200, 50)

	agg := NewAggregator(120, 1)
	series := agg.Aggregate(records)

	if _, ok := series["smith-j"]; ok {
		t.Error("expected smith-j dropped at the min-events threshold")
	}
}

// TestAggregate_SkipsUnresolved verifies records with a nil resolved
// sender contribute nothing.
func TestAggregate_SkipsUnresolved(t *testing.T) {
	records := append(resolvedRecords("smith-j", 500, 300),
		models.Record{ResolvedSenderID: nil, Timestamp: 400},
	)

	agg := NewAggregator(0, 0)
	series := agg.Aggregate(records)

	if len(series) != 1 {
		t.Fatalf("expected 1 person, got %d", len(series))
	}
	ps := series["smith-j"]
	if len(ps.Timestamps) != 2 || ps.Timestamps[0] != 300 || ps.Timestamps[1] != 500 {
		t.Errorf("expected [300 500], got %v", ps.Timestamps)
	}
}
