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

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the resolution settings.
const (
	DefaultFloorDate          = "2000-01-01T00:00:00Z"
	DefaultMinEventsPerPerson = 10
	DefaultMinSentEvidence    = 0
)

// defaultSentFolderLabels are the folder labels treated as a person's
// own outbound mail.
var defaultSentFolderLabels = []string{"sent", "sent_items", "_sent_mail"}

// Config holds all configuration for the resolution pipeline.
type Config struct {
	// Resolution
	SentFolderLabels   []string
	FloorDate          int64 // epoch seconds; earlier timestamps are dropped
	MinEventsPerPerson int
	MinSentEvidence    int

	// ManualNameOverrides maps person ids to hand-corrected name sets.
	// An entry fully replaces the algorithmic result for that id.
	ManualNameOverrides map[string][]string

	// Input
	CSVPath     string
	PostgresURL string

	// Output
	OutputPath string

	// Redis (optional series hand-off to the modeling workers)
	RedisURL    string
	SeriesQueue string
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Resolution struct {
		SentFolderLabels    []string            `yaml:"sent_folder_labels"`
		FloorDate           string              `yaml:"floor_date"`
		MinEventsPerPerson  *int                `yaml:"min_events_per_person"`
		MinSentEvidence     *int                `yaml:"min_sent_evidence"`
		ManualNameOverrides map[string][]string `yaml:"manual_name_overrides"`
	} `yaml:"resolution"`
	Input struct {
		CSVPath     string `yaml:"csv_path"`
		PostgresURL string `yaml:"postgres_url"`
	} `yaml:"input"`
	Output struct {
		JSONPath string `yaml:"json_path"`
	} `yaml:"output"`
	Redis struct {
		URL    string `yaml:"url"`
		Queues struct {
			Series string `yaml:"series"`
		} `yaml:"queues"`
	} `yaml:"redis"`
}

// Load reads configuration from config.yaml (with env var expansion) and
// environment variables for non-YAML settings.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	// Expand ${VAR} references in the YAML
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	floorDate, err := parseFloorDate(firstNonEmpty(raw.Resolution.FloorDate, envOrDefault("FLOOR_DATE", DefaultFloorDate)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		SentFolderLabels:    raw.Resolution.SentFolderLabels,
		FloorDate:           floorDate,
		MinEventsPerPerson:  intOrDefault(raw.Resolution.MinEventsPerPerson, envOrDefaultInt("MIN_EVENTS_PER_PERSON", DefaultMinEventsPerPerson)),
		MinSentEvidence:     intOrDefault(raw.Resolution.MinSentEvidence, envOrDefaultInt("MIN_SENT_EVIDENCE", DefaultMinSentEvidence)),
		ManualNameOverrides: raw.Resolution.ManualNameOverrides,
		CSVPath:             firstNonEmpty(raw.Input.CSVPath, os.Getenv("RECORDS_CSV")),
		PostgresURL:         firstNonEmpty(raw.Input.PostgresURL, os.Getenv("DATABASE_URL")),
		OutputPath:          firstNonEmpty(raw.Output.JSONPath, envOrDefault("OUTPUT_PATH", "person_series.json")),
		RedisURL:            firstNonEmpty(raw.Redis.URL, os.Getenv("REDIS_URL")),
		SeriesQueue:         firstNonEmpty(raw.Redis.Queues.Series, envOrDefault("SERIES_QUEUE", "person_series")),
	}

	if len(cfg.SentFolderLabels) == 0 {
		cfg.SentFolderLabels = splitLabels(os.Getenv("SENT_FOLDER_LABELS"))
	}
	if len(cfg.SentFolderLabels) == 0 {
		cfg.SentFolderLabels = defaultSentFolderLabels
	}

	if cfg.CSVPath == "" && cfg.PostgresURL == "" {
		return nil, fmt.Errorf("no input source configured — set input.csv_path or input.postgres_url")
	}

	return cfg, nil
}

// parseFloorDate converts an RFC3339 instant to epoch seconds.
func parseFloorDate(value string) (int64, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, fmt.Errorf("parse floor_date %q: %w", value, err)
	}
	return t.Unix(), nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func intOrDefault(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

// splitLabels parses a comma-separated label list from an env var.
func splitLabels(value string) []string {
	var labels []string
	for _, l := range strings.Split(value, ",") {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
