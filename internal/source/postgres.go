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

package source

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bcem/resolution/internal/models"
)

// PostgresStore loads header records from Postgres and persists the
// computed per-person series back to it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed store over the given pool.
// It ensures both tables exist on creation.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure resolution schema: %w", err)
	}
	slog.Info("record store initialised")
	return s, nil
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS header_records (
			id              BIGSERIAL PRIMARY KEY,
			person_id       TEXT NOT NULL,
			folder          TEXT NOT NULL,
			sender_field    TEXT DEFAULT '',
			recipient_field TEXT DEFAULT '',
			ts              BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_person ON header_records(person_id);
		CREATE INDEX IF NOT EXISTS idx_records_folder ON header_records(folder);

		CREATE TABLE IF NOT EXISTS person_series (
			person_id   TEXT PRIMARY KEY,
			timestamps  BIGINT[] NOT NULL,
			event_count INT NOT NULL,
			updated_at  TIMESTAMPTZ DEFAULT NOW()
		);
	`)
	return err
}

// LoadRecords reads the full header record table, ordered by insertion
// id so repeated runs see the rows in the same order.
func (s *PostgresStore) LoadRecords(ctx context.Context) ([]models.Record, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT person_id, folder, sender_field, recipient_field, ts
		FROM header_records
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query header records: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var r models.Record
		if err := rows.Scan(&r.PersonID, &r.Folder, &r.SenderField, &r.RecipientField, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan header record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// SaveSeries upserts the computed series, one row per retained person.
func (s *PostgresStore) SaveSeries(ctx context.Context, series map[string]models.PersonSeries) error {
	ids := make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		ps := series[id]
		_, err := s.pool.Exec(ctx, `
			INSERT INTO person_series (person_id, timestamps, event_count)
			VALUES ($1, $2, $3)
			ON CONFLICT (person_id) DO UPDATE SET
				timestamps  = EXCLUDED.timestamps,
				event_count = EXCLUDED.event_count,
				updated_at  = NOW()
		`, id, ps.Timestamps, ps.Count)
		if err != nil {
			return fmt.Errorf("upsert series for %s: %w", id, err)
		}
	}
	return nil
}
