package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
environment: test
telegram:
  token: test-token
news:
  api_key: test-key
scheduler:
  market_open: "09:15"
  market_close: "15:30"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("default port not applied: %d", cfg.Server.Port)
	}
	if cfg.Scheduler.Interval != 60*time.Second {
		t.Fatalf("default interval not applied: %v", cfg.Scheduler.Interval)
	}
	if cfg.Dedup.Backend != "memory" {
		t.Fatalf("default dedup backend not applied: %q", cfg.Dedup.Backend)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: test\n")); err == nil {
		t.Fatalf("expected validation error without credentials")
	}
}

func TestLoadRejectsInvertedMarketWindow(t *testing.T) {
	yaml := `
environment: test
telegram:
  token: x
news:
  api_key: y
scheduler:
  market_open: "16:00"
  market_close: "09:00"
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("expected error for open after close")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "env-token")
	t.Setenv("REPORT_HOUR", "18")

	cfg, err := LoadWithEnv(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Fatalf("env token not applied: %q", cfg.Telegram.Token)
	}
	if cfg.Scheduler.ReportHour != 18 {
		t.Fatalf("env report hour not applied: %d", cfg.Scheduler.ReportHour)
	}
}

func TestLoadRedisBackendRequiresAddr(t *testing.T) {
	yaml := validYAML + `
dedup:
  backend: redis
`
	if _, err := Load(writeConfig(t, yaml)); err == nil {
		t.Fatalf("expected error for redis backend without addr")
	}
}
