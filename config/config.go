// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package config loads engine configuration from an optional file with
// environment variable overrides (prefix REUNITE_).
package config

import (
	"errors"
	"math"
	"strings"

	"github.com/spf13/viper"

	reunerr "github.com/reunite-dev/reunite/pkg/errors"
)

// Default values applied when neither file nor environment set a key.
const (
	DefaultBackend          = "sqlite"
	DefaultStoragePath      = "reunite.db"
	DefaultVectorDimensions = 128
	DefaultThreshold        = 0.4
)

// Config is the top-level engine configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Search  SearchConfig  `mapstructure:"search"`
}

// StorageConfig selects and parameterises the storage backend.
type StorageConfig struct {
	Backend          string `mapstructure:"backend"`
	Path             string `mapstructure:"path"`
	VectorDimensions int    `mapstructure:"vector_dimensions"`
}

// SearchConfig controls similarity search behaviour.
type SearchConfig struct {
	// DefaultThreshold is the documented fallback strictness used when the
	// caller does not supply one. Must lie in [-1, 1].
	DefaultThreshold float64 `mapstructure:"default_threshold"`
}

// Default returns a Config populated with the package defaults.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:          DefaultBackend,
			Path:             DefaultStoragePath,
			VectorDimensions: DefaultVectorDimensions,
		},
		Search: SearchConfig{DefaultThreshold: DefaultThreshold},
	}
}

// Load reads configuration from the given path (or defaults when path is
// empty) with environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("storage.backend", DefaultBackend)
	v.SetDefault("storage.path", DefaultStoragePath)
	v.SetDefault("storage.vector_dimensions", DefaultVectorDimensions)
	v.SetDefault("search.default_threshold", DefaultThreshold)

	// Environment
	v.SetEnvPrefix("REUNITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, reunerr.Errorf(reunerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, reunerr.Errorf(reunerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, reunerr.Errorf(reunerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors. It returns a slice
// of all validation errors found, collecting all issues rather than
// stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	if c.Storage.Backend == "" {
		errs = append(errs, reunerr.New(reunerr.CodeConfigValidateInvalidValue,
			"config: storage.backend must not be empty"))
	}

	if c.Storage.Path == "" {
		errs = append(errs, reunerr.New(reunerr.CodeConfigValidateInvalidValue,
			"config: storage.path must not be empty"))
	}

	if c.Storage.VectorDimensions <= 0 {
		errs = append(errs, reunerr.Errorf(reunerr.CodeConfigValidateInvalidValue,
			"config: storage.vector_dimensions must be > 0, got %d", c.Storage.VectorDimensions))
	}

	t := c.Search.DefaultThreshold
	if math.IsNaN(t) || t < -1 || t > 1 {
		errs = append(errs, reunerr.Errorf(reunerr.CodeConfigValidateInvalidValue,
			"config: search.default_threshold must lie in [-1, 1], got %v", t))
	}

	return errs
}
