// SPDX-License-Identifier: Apache-2.0

// Package config loads scholarcheck settings from an optional YAML file with
// environment variable overrides.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/scholarcheck/scholarcheck-mcp/internal/column"
	"github.com/scholarcheck/scholarcheck-mcp/internal/normalize"
)

// Config holds all configuration for scholarcheck.
// Environment variables always override YAML values.
type Config struct {
	// FuzzyThreshold is the default minimum similarity (0-100) for a fuzzy duplicate.
	FuzzyThreshold int `yaml:"fuzzy_threshold" env:"SCHOLARCHECK_FUZZY_THRESHOLD" env-default:"85"`

	// RulesFile replaces the built-in column mapping rules when set.
	RulesFile string `yaml:"rules_file" env:"SCHOLARCHECK_RULES_FILE" env-default:""`

	// NormalizeMode is "lowercase" or "fold_accents".
	NormalizeMode string `yaml:"normalize_mode" env:"SCHOLARCHECK_NORMALIZE_MODE" env-default:"lowercase"`

	// Workers bounds concurrent record matching; 1 matches sequentially.
	Workers int `yaml:"workers" env:"SCHOLARCHECK_WORKERS" env-default:"1"`

	Log      LogConfig      `yaml:"log"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" env:"SCHOLARCHECK_LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"SCHOLARCHECK_LOG_FORMAT" env-default:"console"`
}

// PostgresConfig points at an optional database roster.
type PostgresConfig struct {
	URL string `yaml:"url" env:"SCHOLARCHECK_PG_URL" env-default:""`
}

// Load reads the config file at path with environment overrides. An empty
// path reads the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 100 {
		return fmt.Errorf("fuzzy_threshold must be between 0 and 100, got %d", c.FuzzyThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if _, err := normalize.ParseMode(c.NormalizeMode); err != nil {
		return err
	}
	return nil
}

// RuleSet returns the configured column mapping rules.
func (c *Config) RuleSet() (*column.RuleSet, error) {
	if c.RulesFile == "" {
		return column.Default(), nil
	}
	return column.LoadRules(c.RulesFile)
}

// Normalizer returns the configured value normalizer.
func (c *Config) Normalizer() (normalize.Normalizer, error) {
	mode, err := normalize.ParseMode(c.NormalizeMode)
	if err != nil {
		return normalize.Normalizer{}, err
	}
	return normalize.New(mode), nil
}
