// Package testsupport holds shared helpers for package tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"sigscan/internal/config"
)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.CatalogDir = filepath.Join(base, "catalog")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WriteMetaFile writes a metadata document under dir and returns its path.
func WriteMetaFile(t testing.TB, dir, name, doc string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteDataFile fills the companion data path with size bytes of padding.
func WriteDataFile(t testing.TB, path string, size int64) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ValidDoc is a minimal well-formed metadata document with one classified
// annotation.
const ValidDoc = `{
  "global": {
    "core:datatype": "cf32_le",
    "core:sample_rate": 1000000,
    "core:hw": "test-sdr"
  },
  "captures": [{"core:sample_start": 0}],
  "annotations": [{
    "core:sample_start": 0,
    "core:sample_count": 1024,
    "ds:classification": {
      "signal_class": {"wifi": 0.9},
      "modulation_class": {"psk": 0.8},
      "snr_db": 12.0,
      "power_dbm": -40.0
    }
  }]
}`

// MalformedDoc is structurally invalid: captures carries the wrong type.
const MalformedDoc = `{"global": {}, "captures": "nope"}`
