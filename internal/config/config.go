package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all client configuration.
type Config struct {
	// ServerURL is the backend API base URL, including the /api prefix.
	ServerURL string `yaml:"server_url"`

	// RequestTimeout bounds every single HTTP request. Default: 15s.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	Retry RetryConfig `yaml:"retry"`

	// QuestionTime is the per-question countdown. Default: 45s.
	QuestionTime time.Duration `yaml:"question_time"`

	// QuestionBudget is the number of questions shown on the progress bar.
	// The backend decides when a test actually ends.
	QuestionBudget int `yaml:"question_budget"`

	// DBPath is the local SQLite file for credentials and diagnostics.
	// Empty means the default XDG data path.
	DBPath string `yaml:"db_path"`
}

// RetryConfig configures retries for idempotent GET requests.
// MaxAttempts of 1 disables retrying.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ServerURL:      "http://localhost:5000/api",
		RequestTimeout: 15 * time.Second,
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		QuestionTime:   45 * time.Second,
		QuestionBudget: 20,
	}
}

// Load builds a Config from defaults, then the YAML file at path (or the
// default config path when path is empty), then environment variables.
// A .env file in the working directory is loaded first if present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := DefaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	// A missing default config file is fine; a missing explicit one is not.
	if err := LoadFile(&cfg, path); err != nil && (explicit || !errors.Is(err, os.ErrNotExist)) {
		return cfg, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg.
// Fields missing from the file keep their current values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays ADAPTEST_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	if u := os.Getenv("ADAPTEST_SERVER_URL"); u != "" {
		cfg.ServerURL = u
	}
	if p := os.Getenv("ADAPTEST_DB"); p != "" {
		cfg.DBPath = p
	}

	if v := os.Getenv("ADAPTEST_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ADAPTEST_REQUEST_TIMEOUT=%q: %w", v, err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("ADAPTEST_QUESTION_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ADAPTEST_QUESTION_TIME=%q: %w", v, err)
		}
		cfg.QuestionTime = d
	}
	if v := os.Getenv("ADAPTEST_QUESTION_BUDGET"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ADAPTEST_QUESTION_BUDGET=%q: %w", v, err)
		}
		cfg.QuestionBudget = n
	}
	if v := os.Getenv("ADAPTEST_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ADAPTEST_RETRY_ATTEMPTS=%q: %w", v, err)
		}
		cfg.Retry.MaxAttempts = n
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server URL %q must be an absolute http(s) URL", c.ServerURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server URL %q must use http or https", c.ServerURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.QuestionTime < time.Second {
		return fmt.Errorf("question time must be at least 1s, got %s", c.QuestionTime)
	}
	if c.QuestionBudget <= 0 {
		return fmt.Errorf("question budget must be positive, got %d", c.QuestionBudget)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/adaptest/config.yaml,
// falling back to ~/.config/adaptest/config.yaml.
func DefaultConfigPath() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "adaptest", "config.yaml"), nil
}
