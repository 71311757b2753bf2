// Package config loads the application configuration.
//
// Values come from three layers, later ones winning:
//  1. Defaults from Default()
//  2. An optional YAML file named by COUNTRIES_CONFIG
//  3. Environment variables
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"countryquiz/internal/infra/fetcher"
	"countryquiz/internal/observability/logging"
	"countryquiz/internal/observability/metrics"
	"countryquiz/internal/usecase/quiz"
	pkgconfig "countryquiz/pkg/config"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable holding the YAML file path.
const FileEnv = "COUNTRIES_CONFIG"

// DefaultRefreshSchedule refreshes the served catalog every six hours.
const DefaultRefreshSchedule = "0 */6 * * *"

// MaxQuizQuestions bounds QUIZ_QUESTIONS. It is roughly the number of
// independent countries, so a longer quiz could never be filled.
const MaxQuizQuestions = 200

// MaxLoadAttempts bounds LOAD_ATTEMPTS.
const MaxLoadAttempts = 10

// Config is the complete application configuration.
type Config struct {
	Endpoint          string        `env:"COUNTRIES_ENDPOINT" yaml:"endpoint"`
	Timeout           time.Duration `env:"COUNTRIES_TIMEOUT" yaml:"timeout"`
	MaxBodySize       int64         `env:"COUNTRIES_MAX_BODY_SIZE" yaml:"max_body_size"`
	RequestsPerSecond float64       `env:"COUNTRIES_RATE_LIMIT" yaml:"rate_limit"`
	Burst             int           `env:"COUNTRIES_RATE_BURST" yaml:"rate_burst"`

	QuizQuestions int `env:"QUIZ_QUESTIONS" yaml:"quiz_questions"`

	// LoadAttempts is how many times the initial catalog load is tried.
	// 1 disables retrying.
	LoadAttempts int `env:"LOAD_ATTEMPTS" yaml:"load_attempts"`

	RefreshSchedule string `env:"REFRESH_SCHEDULE" yaml:"refresh_schedule"`
	StatusAddr      string `env:"STATUS_ADDR" yaml:"status_addr"`

	LogLevel  slog.Level `env:"LOG_LEVEL" yaml:"log_level"`
	LogFormat string     `env:"LOG_FORMAT" yaml:"log_format"`

	// Warnings lists the settings that were replaced by their default.
	Warnings []string `yaml:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	fc := fetcher.DefaultConfig()
	return Config{
		Endpoint:          fc.Endpoint,
		Timeout:           fc.Timeout,
		MaxBodySize:       fc.MaxBodySize,
		RequestsPerSecond: fc.RequestsPerSecond,
		Burst:             fc.Burst,
		QuizQuestions:     quiz.DefaultNumberOfQuestions,
		LoadAttempts:      1,
		RefreshSchedule:   DefaultRefreshSchedule,
		StatusAddr:        ":9090",
		LogLevel:          slog.LevelInfo,
		LogFormat:         logging.FormatJSON,
	}
}

// Load builds the configuration from defaults, the optional YAML file and the
// environment, then validates it.
//
// An invalid REFRESH_SCHEDULE falls back to DefaultRefreshSchedule and is
// reported in Warnings. Every other invalid value is an error.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.applyFallbacks()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	metrics.RecordConfigLoad(time.Now())
	return &cfg, nil
}

// loadFile overlays the YAML file at path onto c. Keys absent from the file
// keep their current value.
func (c *Config) loadFile(path string) error {
	// #nosec G304 -- path comes from the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyFallbacks() {
	schedule, warning := pkgconfig.WithFallback("REFRESH_SCHEDULE", c.RefreshSchedule, DefaultRefreshSchedule, pkgconfig.ValidateCronSchedule)
	c.RefreshSchedule = schedule
	if warning != "" {
		c.Warnings = append(c.Warnings, warning)
		metrics.RecordConfigFallback("REFRESH_SCHEDULE")
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	fc := c.Fetcher()
	if err := fc.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("fetcher: %w", err))
	}
	if err := pkgconfig.ValidateIntRange(c.QuizQuestions, 1, MaxQuizQuestions); err != nil {
		errs = append(errs, fmt.Errorf("QUIZ_QUESTIONS: %w", err))
	}
	if err := pkgconfig.ValidateIntRange(c.LoadAttempts, 1, MaxLoadAttempts); err != nil {
		errs = append(errs, fmt.Errorf("LOAD_ATTEMPTS: %w", err))
	}
	if err := pkgconfig.ValidateCronSchedule(c.RefreshSchedule); err != nil {
		errs = append(errs, fmt.Errorf("REFRESH_SCHEDULE: %w", err))
	}
	if err := pkgconfig.ValidateListenAddr(c.StatusAddr); err != nil {
		errs = append(errs, fmt.Errorf("STATUS_ADDR: %w", err))
	}
	if !strings.EqualFold(c.LogFormat, logging.FormatJSON) && !strings.EqualFold(c.LogFormat, logging.FormatText) {
		errs = append(errs, fmt.Errorf("LOG_FORMAT: must be %q or %q, got %q", logging.FormatJSON, logging.FormatText, c.LogFormat))
	}

	return errors.Join(errs...)
}

// Fetcher returns the REST Countries fetcher settings.
func (c *Config) Fetcher() fetcher.Config {
	fc := fetcher.DefaultConfig()
	fc.Endpoint = c.Endpoint
	fc.Timeout = c.Timeout
	fc.MaxBodySize = c.MaxBodySize
	fc.RequestsPerSecond = c.RequestsPerSecond
	fc.Burst = c.Burst
	return fc
}
