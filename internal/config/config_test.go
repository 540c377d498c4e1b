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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
}

// TestLoad verifies YAML settings, including the manual override table,
// parse into the Config.
func TestLoad(t *testing.T) {
	writeConfig(t, `
resolution:
  sent_folder_labels: ["sent", "outbox"]
  floor_date: "2000-01-01T00:00:00Z"
  min_events_per_person: 5
  min_sent_evidence: 1
  manual_name_overrides:
    lay-k:
      - "lay, kenneth"
      - "kenneth lay"
input:
  csv_path: records.csv
output:
  json_path: out.json
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.SentFolderLabels) != 2 || cfg.SentFolderLabels[1] != "outbox" {
		t.Errorf("unexpected sent folder labels: %v", cfg.SentFolderLabels)
	}
	if cfg.FloorDate != 946684800 {
		t.Errorf("expected floor 946684800 (2000-01-01), got %d", cfg.FloorDate)
	}
	if cfg.MinEventsPerPerson != 5 || cfg.MinSentEvidence != 1 {
		t.Errorf("unexpected thresholds: %d %d", cfg.MinEventsPerPerson, cfg.MinSentEvidence)
	}
	names := cfg.ManualNameOverrides["lay-k"]
	if len(names) != 2 || names[0] != "lay, kenneth" {
		t.Errorf("unexpected overrides: %v", cfg.ManualNameOverrides)
	}
	if cfg.CSVPath != "records.csv" || cfg.OutputPath != "out.json" {
		t.Errorf("unexpected paths: %q %q", cfg.CSVPath, cfg.OutputPath)
	}
}

// TestLoad_Defaults verifies the documented defaults apply when the
// YAML omits optional settings.
func TestLoad_Defaults(t *testing.T) {
	writeConfig(t, `
input:
  csv_path: records.csv
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cfg.SentFolderLabels) != 3 {
		t.Errorf("expected default sent folder labels, got %v", cfg.SentFolderLabels)
	}
	if cfg.MinEventsPerPerson != DefaultMinEventsPerPerson {
		t.Errorf("expected default min events, got %d", cfg.MinEventsPerPerson)
	}
	if cfg.MinSentEvidence != DefaultMinSentEvidence {
		t.Errorf("expected default min evidence, got %d", cfg.MinSentEvidence)
	}
	if cfg.FloorDate != 946684800 {
		t.Errorf("expected default floor date, got %d", cfg.FloorDate)
	}
	if cfg.SeriesQueue != "person_series" {
		t.Errorf("expected default series queue, got %q", cfg.SeriesQueue)
	}
}

// TestLoad_SentFolderLabelsFromEnv verifies the comma-split env
// fallback applies when the YAML omits sent_folder_labels.
func TestLoad_SentFolderLabelsFromEnv(t *testing.T) {
	t.Setenv("SENT_FOLDER_LABELS", "sent, outbox ,")
	writeConfig(t, `
input:
  csv_path: records.csv
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.SentFolderLabels) != 2 || cfg.SentFolderLabels[0] != "sent" || cfg.SentFolderLabels[1] != "outbox" {
		t.Errorf("unexpected labels from env: %v", cfg.SentFolderLabels)
	}
}

// TestLoad_EnvExpansion verifies ${VAR} references in the YAML expand
// from the environment.
func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_RECORDS", "/data/records.csv")
	writeConfig(t, `
input:
  csv_path: ${TEST_RECORDS}
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CSVPath != "/data/records.csv" {
		t.Errorf("expected env expansion, got %q", cfg.CSVPath)
	}
}

// TestLoad_NoInput verifies configuration without any record source is
// rejected.
func TestLoad_NoInput(t *testing.T) {
	writeConfig(t, `
output:
  json_path: out.json
`)

	if _, err := Load(); err == nil {
		t.Fatal("expected error when no input source is configured")
	}
}
