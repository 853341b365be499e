// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reunite-dev/reunite/config"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "reunite.db", cfg.Storage.Path)
	assert.Equal(t, 128, cfg.Storage.VectorDimensions)
	assert.Equal(t, 0.4, cfg.Search.DefaultThreshold)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("REUNITE_STORAGE_BACKEND", "memory")
	t.Setenv("REUNITE_STORAGE_VECTOR_DIMENSIONS", "512")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, 512, cfg.Storage.VectorDimensions)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reunite.yaml")
	content := []byte("storage:\n  path: /var/lib/reunite/cases.db\n  vector_dimensions: 256\nsearch:\n  default_threshold: 0.6\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/reunite/cases.db", cfg.Storage.Path)
	assert.Equal(t, 256, cfg.Storage.VectorDimensions)
	assert.Equal(t, 0.6, cfg.Search.DefaultThreshold)
	// Unset keys keep their defaults.
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, reunerr.HasCode(err, reunerr.CodeConfigLoadReadFailure))
}

func TestValidate_CollectsAllIssues(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Backend = ""
	cfg.Storage.VectorDimensions = 0
	cfg.Search.DefaultThreshold = 1.5

	errs := cfg.Validate()
	assert.Len(t, errs, 3)
	for _, err := range errs {
		assert.True(t, reunerr.HasCode(err, reunerr.CodeConfigValidateInvalidValue))
	}
}

func TestValidate_ThresholdRange(t *testing.T) {
	cfg := config.Default()
	cfg.Search.DefaultThreshold = -1
	assert.Empty(t, cfg.Validate())

	cfg.Search.DefaultThreshold = 1
	assert.Empty(t, cfg.Validate())

	cfg.Search.DefaultThreshold = -1.01
	assert.Len(t, cfg.Validate(), 1)
}
