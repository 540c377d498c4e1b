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
	"testing"

	"github.com/bcem/resolution/internal/models"
)

var sentLabels = []string{"sent", "sent_items", "_sent_mail"}

// sentRecord builds a sent-folder record with the given sender field.
func sentRecord(personID, senderField string) models.Record {
	return models.Record{
		PersonID:    personID,
		Folder:      "sent_items",
		SenderField: senderField,
		Timestamp:   1000,
	}
}

// TestCandidates_FrequencyRanking verifies candidates are ranked by
// descending occurrence count.
func TestCandidates_FrequencyRanking(t *testing.T) {
	records := []models.Record{
		sentRecord("smith-j", "jsmith@x.com"),
		sentRecord("smith-j", "Smith, John <jsmith@x.com>"),
		sentRecord("smith-j", "Smith, John <jsmith@x.com>"),
	}

	b := NewEvidenceBuilder(sentLabels)
	cands, err := b.Candidates("smith-j", records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(cands), cands)
	}
	if cands[0].Name != "smith, john" || cands[0].Count != 2 {
		t.Errorf("expected (smith, john, 2) first, got %+v", cands[0])
	}
	if cands[1].Name != "jsmith@x.com" || cands[1].Count != 1 {
		t.Errorf("expected (jsmith@x.com, 1) second, got %+v", cands[1])
	}
}

// TestCandidates_TieBreakByFirstSeen verifies equal counts keep the
// order in which the names were first encountered.
func TestCandidates_TieBreakByFirstSeen(t *testing.T) {
	records := []models.Record{
		sentRecord("smith-j", "J Smith"),
		sentRecord("smith-j", "jsmith@x.com"),
	}

	b := NewEvidenceBuilder(sentLabels)
	cands, err := b.Candidates("smith-j", records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(cands))
	}
	if cands[0].Name != "j smith" || cands[1].Name != "jsmith@x.com" {
		t.Errorf("tie not broken by first occurrence: %+v", cands)
	}
}

// TestCandidates_OnlyOwnSentRecords verifies that other people's
// records and non-sent folders contribute no evidence.
func TestCandidates_OnlyOwnSentRecords(t *testing.T) {
	records := []models.Record{
		sentRecord("smith-j", "Smith, John <jsmith@x.com>"),
		sentRecord("doe-j", "Doe, Jane <jdoe@x.com>"),
		{PersonID: "smith-j", Folder: "inbox", SenderField: "Third, Party <3p@y.com>"},
	}

	b := NewEvidenceBuilder(sentLabels)
	cands, err := b.Candidates("smith-j", records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cands) != 1 || cands[0].Name != "smith, john" {
		t.Errorf("expected only own sent-folder evidence, got %+v", cands)
	}
}

// TestSentRecordCount counts only sent-class records for the person.
func TestSentRecordCount(t *testing.T) {
	records := []models.Record{
		sentRecord("smith-j", "Smith, John <jsmith@x.com>"),
		{PersonID: "smith-j", Folder: "inbox", SenderField: "x"},
		sentRecord("doe-j", "Doe, Jane <jdoe@x.com>"),
	}

	b := NewEvidenceBuilder(sentLabels)
	if n := b.SentRecordCount("smith-j", records); n != 1 {
		t.Errorf("expected 1 sent record, got %d", n)
	}
	if n := b.SentRecordCount("nobody", records); n != 0 {
		t.Errorf("expected 0 sent records, got %d", n)
	}
}
