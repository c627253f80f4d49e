package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const sampleYAML = `
api:
  base_url: "http://127.0.0.1:8080"
  token: "secret"
  timeout: "10s"
logging:
  level: "debug"
  console: true
  file:
    enabled: false
    path: ""
scheduler:
  enabled: true
  workers: 2
reminder:
  check_interval: "30m"
  daily_at: "09:00"
  window: "24h"
notify:
  console: true
storage:
  driver: "file"
  path: "/tmp/coursebell"
`

func TestParseYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", sampleYAML)
	m := NewManager(path)

	cfg, err := m.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.API.BaseURL != "http://127.0.0.1:8080" || cfg.API.Token != "secret" {
		t.Fatalf("unexpected api section: %+v", cfg.API)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("unexpected logging section: %+v", cfg.Logging)
	}
	if cfg.Reminder.CheckInterval != "30m" || cfg.Reminder.DailyAt != "09:00" {
		t.Fatalf("unexpected reminder section: %+v", cfg.Reminder)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "file" {
		t.Fatalf("unexpected storage section: %+v", cfg.Storage)
	}
}

func TestParseJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"api": {"base_url": "http://localhost", "token": "t"},
		"logging": {"level": "info", "console": true, "file": {"enabled": false, "path": ""}},
		"scheduler": {"enabled": true},
		"reminder": {},
		"notify": {"console": true}
	}`)
	m := NewManager(path)

	cfg, err := m.Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost" {
		t.Fatalf("unexpected api section: %+v", cfg.API)
	}
	if cfg.Storage != nil {
		t.Fatalf("expected storage disabled (nil), got %+v", cfg.Storage)
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "config.yaml", sampleYAML+"\nmystery_section:\n  x: 1\n")
	m := NewManager(path)
	if _, err := m.Parse(); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestParseRejectsTrailingJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"notify": {"console": true}} {"again": true}`)
	m := NewManager(path)
	if _, err := m.Parse(); err == nil {
		t.Fatalf("expected error for trailing data")
	}
}

func TestLoadCommitGet(t *testing.T) {
	path := writeConfig(t, "config.yaml", sampleYAML)
	m := NewManager(path)

	if m.Get() != nil {
		t.Fatalf("expected nil before Load")
	}
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.Get() != cfg {
		t.Fatalf("Get must return the committed config")
	}
}

func TestSubscribePublishUnsubscribe(t *testing.T) {
	m := NewManager("ignored")
	ch := m.Subscribe(1)

	cfg := &Config{}
	m.publish(cfg)
	select {
	case got := <-ch:
		if got != cfg {
			t.Fatalf("unexpected config %p", got)
		}
	default:
		t.Fatalf("expected a published config")
	}

	// A slow subscriber gets the newest revision, not the oldest.
	first, second := &Config{}, &Config{}
	m.publish(first)
	m.publish(second)
	select {
	case got := <-ch:
		if got != second {
			t.Fatalf("expected the latest revision")
		}
	default:
		t.Fatalf("expected a published config")
	}

	m.Unsubscribe(ch)
	if _, ok := <-ch; ok {
		t.Fatalf("expected closed channel after Unsubscribe")
	}
	m.publish(cfg) // must not panic
}

func TestParseDurationField(t *testing.T) {
	tests := []struct {
		raw     string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"30m", 30 * time.Minute, false},
		{" 24h ", 24 * time.Hour, false},
		{"-5s", 0, true},
		{"soon", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseDurationField("test.field", tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseDurationField(%q): expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseDurationField(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDurationField(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParseDurationOrDefault(t *testing.T) {
	def := 30 * time.Minute
	if got, err := ParseDurationOrDefault("f", "", def); err != nil || got != def {
		t.Fatalf("empty value must fall back to default, got %s, %v", got, err)
	}
	if got, err := ParseDurationOrDefault("f", "10m", def); err != nil || got != 10*time.Minute {
		t.Fatalf("explicit value must win, got %s, %v", got, err)
	}
	if _, err := ParseDurationOrDefault("f", "junk", def); err == nil {
		t.Fatalf("expected error for junk duration")
	}
}
