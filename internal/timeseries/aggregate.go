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

// Package timeseries folds resolved records into per-person send-event
// timestamp sequences.
package timeseries

import (
	"sort"

	"github.com/bcem/resolution/internal/models"
)

// Aggregator groups resolved sender ids into sorted, duplicate-free
// timestamp sequences.
type Aggregator struct {
	floor     int64 // timestamps strictly below this are dropped
	minEvents int   // persons with count at or below this are dropped
}

// NewAggregator creates an aggregator with the given floor instant
// (epoch seconds) and minimum event threshold.
func NewAggregator(floor int64, minEvents int) *Aggregator {
	return &Aggregator{floor: floor, minEvents: minEvents}
}

// Aggregate builds the per-person series from annotated records.
// Records with a nil resolved sender are skipped.
func (a *Aggregator) Aggregate(records []models.Record) map[string]models.PersonSeries {
	byPerson := make(map[string][]int64)
	for _, r := range records {
		if r.ResolvedSenderID == nil {
			continue
		}
		byPerson[*r.ResolvedSenderID] = append(byPerson[*r.ResolvedSenderID], r.Timestamp)
	}

	out := make(map[string]models.PersonSeries, len(byPerson))
	for id, stamps := range byPerson {
		series := dedupSortFloor(stamps, a.floor)
		if len(series) <= a.minEvents {
			continue
		}
		out[id] = models.PersonSeries{Timestamps: series, Count: len(series)}
	}
	return out
}

// dedupSortFloor returns the unique timestamps at or above floor, in
// ascending order.
func dedupSortFloor(stamps []int64, floor int64) []int64 {
	seen := make(map[int64]struct{}, len(stamps))
	out := make([]int64, 0, len(stamps))
	for _, ts := range stamps {
		if ts < floor {
			continue
		}
		if _, dup := seen[ts]; dup {
			continue
		}
		seen[ts] = struct{}{}
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
