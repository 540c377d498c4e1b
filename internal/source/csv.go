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

// Package source loads the header record table from its upstream home —
// a CSV export or a Postgres table. Loading and column pruning happen
// upstream; these collaborators only materialise the rows the pipeline
// needs.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bcem/resolution/internal/models"
)

// RecordSource materialises the header record table.
type RecordSource interface {
	LoadRecords(ctx context.Context) ([]models.Record, error)
}

// requiredColumns are the header columns the pipeline consumes. Any
// extra columns from the upstream loader are passed over unused.
var requiredColumns = []string{"person_id", "folder", "sender_field", "recipient_field", "timestamp"}

// CSVSource reads records from a CSV export with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV-backed record source.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// LoadRecords reads the whole CSV file into memory. The header row maps
// column names to positions; rows missing a required column or carrying
// a non-numeric timestamp are malformed input and abort the load.
func (s *CSVSource) LoadRecords(ctx context.Context) ([]models.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open records file %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("records file %s missing column %q", s.path, name)
		}
	}

	var records []models.Record
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row: %w", err)
		}
		line++

		field := func(name string) string {
			i := cols[name]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		// Timestamps arrive as integer or float seconds depending on the
		// upstream exporter.
		ts, err := strconv.ParseFloat(field("timestamp"), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp %q: %w", line, field("timestamp"), err)
		}

		records = append(records, models.Record{
			PersonID:       field("person_id"),
			Folder:         field("folder"),
			SenderField:    field("sender_field"),
			RecipientField: field("recipient_field"),
			Timestamp:      int64(ts),
		})
	}

	return records, nil
}
