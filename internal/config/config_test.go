package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"sigscan/internal/config"
)

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SIGSCAN_SCAN_ROOT", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "sigscan", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Scan.Workers != 0 {
		t.Fatalf("unexpected default workers: %d", cfg.Scan.Workers)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SIGSCAN_SCAN_ROOT", "")

	path := filepath.Join(tempHome, "config.toml")
	content := `
[paths]
log_dir = "~/logs"

[scan]
default_root = "~/captures"
workers = 4

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "logs") {
		t.Fatalf("log dir not expanded: %q", cfg.Paths.LogDir)
	}
	if cfg.Scan.DefaultRoot != filepath.Join(tempHome, "captures") {
		t.Fatalf("scan root not expanded: %q", cfg.Scan.DefaultRoot)
	}
	if cfg.Scan.Workers != 4 {
		t.Fatalf("unexpected workers: %d", cfg.Scan.Workers)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected format: %q", cfg.Logging.Format)
	}
}

func TestEnvOverridesScanRoot(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SIGSCAN_SCAN_ROOT", filepath.Join(tempHome, "from-env"))

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Scan.DefaultRoot != filepath.Join(tempHome, "from-env") {
		t.Fatalf("env override not applied: %q", cfg.Scan.DefaultRoot)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"negative workers", func(c *config.Config) { c.Scan.Workers = -1 }},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad level", func(c *config.Config) { c.Logging.Level = "verbose" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when overwriting existing config")
	}
}
