package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"sigscan/internal/testsupport"
)

type scanJSONReport struct {
	RunID      string           `json:"run_id"`
	Root       string           `json:"root"`
	Discovered int              `json:"discovered"`
	Rows       []map[string]any `json:"rows"`
	Failures   []struct {
		Path string `json:"Path"`
		Kind string `json:"Kind"`
	} `json:"failures"`
}

func TestScanCommandJSON(t *testing.T) {
	configPath := writeTestConfig(t)

	root := t.TempDir()
	metaPath := testsupport.WriteMetaFile(t, root, "capture.sigmf-meta", testsupport.ValidDoc)
	testsupport.WriteDataFile(t, filepath.Join(root, "capture.sigmf-data"), 8192)
	testsupport.WriteMetaFile(t, root, "broken.sigmf-meta", testsupport.MalformedDoc)

	out, _, err := runCLI(t, configPath, "scan", root, "--json")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var report scanJSONReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode scan output: %v\n%s", err, out)
	}

	if report.Discovered != 2 {
		t.Fatalf("discovered = %d, want 2", report.Discovered)
	}
	if len(report.Rows) != 1 || len(report.Failures) != 1 {
		t.Fatalf("rows = %d, failures = %d, want 1 and 1", len(report.Rows), len(report.Failures))
	}
	if report.Failures[0].Kind != "malformed_metadata" {
		t.Fatalf("failure kind = %q, want malformed_metadata", report.Failures[0].Kind)
	}

	row := report.Rows[0]
	if got := row["meta_filename"]; got != filepath.Base(metaPath) {
		t.Fatalf("meta_filename = %v", got)
	}
	if got := row["ml_wifi_prob"]; got != 0.9 {
		t.Fatalf("ml_wifi_prob = %v, want 0.9", got)
	}
	if got := row["latitude"]; got != nil {
		t.Fatalf("latitude = %v, want null", got)
	}
}

func TestScanCommandCSVExport(t *testing.T) {
	configPath := writeTestConfig(t)

	root := t.TempDir()
	testsupport.WriteMetaFile(t, root, "capture.sigmf-meta", testsupport.ValidDoc)

	csvPath := filepath.Join(t.TempDir(), "rows.csv")
	if _, _, err := runCLI(t, configPath, "scan", root, "--csv", csvPath); err != nil {
		t.Fatalf("scan: %v", err)
	}

	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	requireContains(t, string(data), "meta_filename,data_filename,sample_rate_hz")
	requireContains(t, string(data), "capture.sigmf-meta")
}

func TestScanCommandMissingRoot(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, _, err := runCLI(t, configPath, "scan", filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing scan root")
	}
}

func TestScanCommandNoRootConfigured(t *testing.T) {
	configPath := writeTestConfig(t)

	if _, _, err := runCLI(t, configPath, "scan"); err == nil {
		t.Fatal("expected error when no directory is given or configured")
	}
}
