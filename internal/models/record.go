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

// Package models defines the data structures shared across the resolution pipeline.
package models

// Record represents one email header event from the upstream loader.
//
// The input fields are immutable; resolution annotates the record with
// derived ids rather than rewriting the raw header text.
type Record struct {
	PersonID       string // canonical id of the mailbox owner
	Folder         string // physical folder label, e.g. "sent_items"
	SenderField    string // raw free-text sender header
	RecipientField string // raw free-text recipient header, comma-separated
	Timestamp      int64  // seconds since epoch

	// Annotations filled in by the record resolver. A nil entry means the
	// name could not be mapped to a known mailbox owner.
	ResolvedSenderID     *string
	ResolvedRecipientIDs []*string
}

// PersonSeries is the final per-person output: the deduplicated,
// chronologically ordered send-event timestamps for one mailbox owner.
//
// This struct's JSON serialisation MUST match the shared/schemas/person_series.json
// contract. The Python modeling service deserialises this JSON via
// PersonSeries.from_dict().
type PersonSeries struct {
	Timestamps []int64 `json:"timestamps"`
	Count      int     `json:"count"`
}
