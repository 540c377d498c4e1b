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

// BlackChamber — Header Resolution Command
//
// Standalone CLI tool that resolves free-text sender/recipient names in a
// parsed email header table to canonical person ids and emits per-person
// send-event time series for the modeling tier.
//
// Usage:
//
//	go run ./cmd/resolve/ [--input records.csv] [--output person_series.json] [--publish]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/bcem/resolution/internal/config"
	"github.com/bcem/resolution/internal/models"
	"github.com/bcem/resolution/internal/pipeline"
	"github.com/bcem/resolution/internal/queue"
	"github.com/bcem/resolution/internal/source"
)

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// --- CLI Flags ---
	inputFlag := flag.String("input", "", "CSV records file (overrides input.csv_path from config)")
	outputFlag := flag.String("output", "", "Output JSON path (overrides output.json_path from config)")
	publishFlag := flag.Bool("publish", false, "Publish retained series to the Redis modeling queue")
	flag.Parse()

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *inputFlag != "" {
		cfg.CSVPath = *inputFlag
	}
	if *outputFlag != "" {
		cfg.OutputPath = *outputFlag
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Open Record Source ---
	var (
		src   source.RecordSource
		store *source.PostgresStore
	)
	switch {
	case cfg.CSVPath != "":
		src = source.NewCSVSource(cfg.CSVPath)
		slog.Info("reading records from CSV", "path", cfg.CSVPath)
	default:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			slog.Error("failed to connect to Postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		store, err = source.NewPostgresStore(ctx, pool)
		if err != nil {
			slog.Error("failed to initialise record store", "error", err)
			os.Exit(1)
		}
		src = store
		slog.Info("reading records from Postgres")
	}

	records, err := src.LoadRecords(ctx)
	if err != nil {
		slog.Error("failed to load records", "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		slog.Error("record table is empty")
		os.Exit(1)
	}

	// --- Run Resolution ---
	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		SentFolderLabels:    cfg.SentFolderLabels,
		MinSentEvidence:     cfg.MinSentEvidence,
		MinEventsPerPerson:  cfg.MinEventsPerPerson,
		FloorDate:           cfg.FloorDate,
		ManualNameOverrides: cfg.ManualNameOverrides,
	})

	result, err := runner.Run(ctx, records)
	if err != nil {
		slog.Error("resolution failed", "error", err)
		os.Exit(1)
	}

	// --- Write Output ---
	if err := writeSeries(cfg.OutputPath, result.Series); err != nil {
		slog.Error("failed to write output", "error", err)
		os.Exit(1)
	}
	slog.Info("wrote person series", "path", cfg.OutputPath, "people", result.Retained)

	// --- Persist to Postgres when it is the backing store ---
	if store != nil {
		if err := store.SaveSeries(ctx, result.Series); err != nil {
			slog.Error("failed to save series to Postgres", "error", err)
			os.Exit(1)
		}
		slog.Info("saved person series to Postgres", "people", result.Retained)
	}

	// --- Optional Redis hand-off to the modeling workers ---
	if *publishFlag {
		if cfg.RedisURL == "" {
			slog.Error("--publish requires redis.url in configuration")
			os.Exit(1)
		}
		if err := publishSeries(ctx, cfg.RedisURL, cfg.SeriesQueue, result.Series); err != nil {
			slog.Error("failed to publish series", "error", err)
			os.Exit(1)
		}
	}

	// --- Summary ---
	slog.Info("resolution complete",
		"run_id", result.RunID,
		"records", result.Records,
		"people", result.People,
		"mapped", result.Mapped,
		"excluded_no_evidence", result.ExcludedNoEvidence,
		"names", result.Names,
		"resolved_senders", result.ResolvedSenders,
		"unresolved_senders", result.UnresolvedSenders,
		"retained", result.Retained,
		"elapsed", result.Elapsed,
	)
}

// writeSeries serialises the series document. encoding/json emits map
// keys in sorted order, so the same input and configuration always
// produce byte-identical output.
func writeSeries(path string, series map[string]models.PersonSeries) error {
	data, err := json.MarshalIndent(series, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// publishSeries pushes every retained series onto the modeling queue.
func publishSeries(ctx context.Context, redisURL, queueName string, series map[string]models.PersonSeries) error {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	publisher := queue.NewPublisher(rdb, queueName)
	if err := publisher.Ping(ctx); err != nil {
		return fmt.Errorf("connect to Redis: %w", err)
	}
	slog.Info("connected to Redis", "queue", queueName)

	ids := make([]string, 0, len(series))
	for id := range series {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if err := publisher.PublishSeries(ctx, id, series[id]); err != nil {
			return fmt.Errorf("publish series for %s: %w", id, err)
		}
	}
	return nil
}
