package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.QuestionTime != 45*time.Second {
		t.Errorf("QuestionTime = %s, want 45s", cfg.QuestionTime)
	}
	if cfg.QuestionBudget != 20 {
		t.Errorf("QuestionBudget = %d, want 20", cfg.QuestionBudget)
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Errorf("Retry.MaxAttempts = %d, want 1 (no retry)", cfg.Retry.MaxAttempts)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFile_Overlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "server_url: https://quiz.example.com/api\nrequest_timeout: 5s\nretry:\n  max_attempts: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := LoadFile(&cfg, path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ServerURL != "https://quiz.example.com/api" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("RequestTimeout = %s, want 5s", cfg.RequestTimeout)
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Retry.MaxAttempts = %d, want 3", cfg.Retry.MaxAttempts)
	}
	// Untouched fields keep their defaults.
	if cfg.QuestionTime != 45*time.Second {
		t.Errorf("QuestionTime = %s, want default 45s", cfg.QuestionTime)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestLoad_DefaultPathMissingIsFine(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != DefaultConfig().ServerURL {
		t.Errorf("ServerURL = %q, want default", cfg.ServerURL)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ADAPTEST_SERVER_URL", "http://backend:8080/api")
	t.Setenv("ADAPTEST_QUESTION_TIME", "30s")
	t.Setenv("ADAPTEST_QUESTION_BUDGET", "10")
	t.Setenv("ADAPTEST_RETRY_ATTEMPTS", "2")

	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.ServerURL != "http://backend:8080/api" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.QuestionTime != 30*time.Second {
		t.Errorf("QuestionTime = %s, want 30s", cfg.QuestionTime)
	}
	if cfg.QuestionBudget != 10 {
		t.Errorf("QuestionBudget = %d, want 10", cfg.QuestionBudget)
	}
	if cfg.Retry.MaxAttempts != 2 {
		t.Errorf("Retry.MaxAttempts = %d, want 2", cfg.Retry.MaxAttempts)
	}
}

func TestApplyEnv_BadDuration(t *testing.T) {
	t.Setenv("ADAPTEST_REQUEST_TIMEOUT", "soon")
	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"relative url", func(c *Config) { c.ServerURL = "/api" }},
		{"ftp url", func(c *Config) { c.ServerURL = "ftp://host/api" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"sub-second question time", func(c *Config) { c.QuestionTime = 500 * time.Millisecond }},
		{"zero budget", func(c *Config) { c.QuestionBudget = 0 }},
		{"zero attempts", func(c *Config) { c.Retry.MaxAttempts = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
