package main

import (
	"encoding/json"
	"testing"

	"sigscan/internal/testsupport"
)

func TestShowCommandJSON(t *testing.T) {
	configPath := writeTestConfig(t)

	dir := t.TempDir()
	metaPath := testsupport.WriteMetaFile(t, dir, "capture.sigmf-meta", testsupport.ValidDoc)

	out, _, err := runCLI(t, configPath, "show", metaPath, "--json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}

	var payload struct {
		Row map[string]any `json:"row"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode show output: %v\n%s", err, out)
	}

	if got := payload.Row["sample_rate_hz"]; got != 1000000.0 {
		t.Fatalf("sample_rate_hz = %v, want 1000000", got)
	}
	if got := payload.Row["hardware"]; got != "test-sdr" {
		t.Fatalf("hardware = %v, want test-sdr", got)
	}
	// No data file exists, so sample counts stay null.
	if got := payload.Row["num_samples"]; got != nil {
		t.Fatalf("num_samples = %v, want null", got)
	}
}

func TestShowCommandTable(t *testing.T) {
	configPath := writeTestConfig(t)

	dir := t.TempDir()
	metaPath := testsupport.WriteMetaFile(t, dir, "capture.sigmf-meta", testsupport.ValidDoc)

	out, _, err := runCLI(t, configPath, "show", metaPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "sample_rate_hz")
	requireContains(t, out, "test-sdr")
}

func TestShowCommandMalformed(t *testing.T) {
	configPath := writeTestConfig(t)

	dir := t.TempDir()
	metaPath := testsupport.WriteMetaFile(t, dir, "broken.sigmf-meta", testsupport.MalformedDoc)

	if _, _, err := runCLI(t, configPath, "show", metaPath); err == nil {
		t.Fatal("expected error for malformed metadata")
	}
}
