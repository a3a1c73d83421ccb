package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Fetch.MaxAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", cfg.Fetch.MaxAttempts)
	}
	if cfg.Fetch.BaseDelay != 5*time.Second {
		t.Fatalf("expected 5s base delay, got %v", cfg.Fetch.BaseDelay)
	}
	if got := cfg.RequestTimeout(); got != 10*time.Second {
		t.Fatalf("expected 10s request timeout, got %v", got)
	}
	if len(cfg.Fetch.UserAgents) != len(DefaultUserAgents) {
		t.Fatalf("expected default user agent pool, got %d entries", len(cfg.Fetch.UserAgents))
	}
	if cfg.Log.File != "robots_sitemap_log.log" {
		t.Fatalf("unexpected log file %q", cfg.Log.File)
	}
	if cfg.Output.BaseDir != "." {
		t.Fatalf("unexpected base dir %q", cfg.Output.BaseDir)
	}
	if !cfg.Output.ShowRobots {
		t.Fatalf("expected robots.txt echo to be on by default")
	}
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
fetch:
  max_attempts: 5
  base_delay: 250ms
  user_agents: ["agent-a", "agent-b"]
http:
  timeout_seconds: 3
probe:
  timeout_seconds: 2
output:
  base_dir: /tmp/robots
storage:
  gcs_bucket: mirror-bucket
  gcs_prefix: runs
log:
  file: custom.log
  development: true
metrics:
  textfile: /tmp/robotsmap.prom
`
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Fetch.MaxAttempts != 5 || cfg.Fetch.BaseDelay != 250*time.Millisecond {
		t.Fatalf("expected fetch overrides to apply: %+v", cfg.Fetch)
	}
	if len(cfg.Fetch.UserAgents) != 2 || cfg.Fetch.UserAgents[1] != "agent-b" {
		t.Fatalf("expected user agent override, got %v", cfg.Fetch.UserAgents)
	}
	if cfg.RequestTimeout() != 3*time.Second || cfg.ProbeTimeout() != 2*time.Second {
		t.Fatalf("expected timeout overrides, got %v/%v", cfg.RequestTimeout(), cfg.ProbeTimeout())
	}
	if cfg.Storage.GCSBucket != "mirror-bucket" || cfg.Storage.GCSPrefix != "runs" {
		t.Fatalf("expected storage overrides: %+v", cfg.Storage)
	}
	if cfg.Log.File != "custom.log" || !cfg.Log.Development {
		t.Fatalf("expected log overrides: %+v", cfg.Log)
	}
	if cfg.Metrics.Textfile != "/tmp/robotsmap.prom" {
		t.Fatalf("expected metrics override, got %q", cfg.Metrics.Textfile)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Fetch:  FetchConfig{MaxAttempts: 3, BaseDelay: time.Second, UserAgents: []string{"ua"}},
		HTTP:   HTTPConfig{TimeoutSeconds: 10},
		Probe:  ProbeConfig{TimeoutSeconds: 10},
		Output: OutputConfig{BaseDir: "."},
		Log:    LogConfig{File: "run.log"},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("base config should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "zero attempts", mutate: func(c *Config) { c.Fetch.MaxAttempts = 0 }, want: "fetch.max_attempts"},
		{name: "negative delay", mutate: func(c *Config) { c.Fetch.BaseDelay = -time.Second }, want: "fetch.base_delay"},
		{name: "empty pool", mutate: func(c *Config) { c.Fetch.UserAgents = nil }, want: "fetch.user_agents"},
		{name: "blank agent", mutate: func(c *Config) { c.Fetch.UserAgents = []string{" "} }, want: "blank"},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTP.TimeoutSeconds = 0 }, want: "http.timeout_seconds"},
		{name: "zero probe timeout", mutate: func(c *Config) { c.Probe.TimeoutSeconds = 0 }, want: "probe.timeout_seconds"},
		{name: "no base dir", mutate: func(c *Config) { c.Output.BaseDir = "" }, want: "output.base_dir"},
		{name: "no log sink", mutate: func(c *Config) { c.Log.File = "" }, want: "log.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			cfg.Fetch.UserAgents = append([]string(nil), base.Fetch.UserAgents...)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
