// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package store

import (
	"sync"

	reunerr "github.com/reunite-dev/reunite/pkg/errors"
)

// defaultVectorDimensions matches common face-embedding models.
const defaultVectorDimensions = 128

// Config parameterises backend construction.
type Config struct {
	Backend          string // "" resolves to "sqlite".
	Path             string // database file path; ignored by the memory backend.
	VectorDimensions int    // embedding dimension D; 0 uses the default (128).
}

// Factory creates a store for the given configuration.
type Factory func(cfg Config) (Store, error)

var (
	factories   = map[string]Factory{}
	factoriesMu sync.RWMutex
)

// RegisterBackend registers a factory for a named storage backend. Backend
// packages call this from init(). This function is goroutine-safe.
func RegisterBackend(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// New creates a store using the backend named in cfg.
func New(cfg Config) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = "sqlite"
	}

	factoriesMu.RLock()
	factory, ok := factories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, reunerr.Errorf(reunerr.CodeStoreBackendUnsupported, "unsupported storage backend: %q", backend)
	}

	if cfg.VectorDimensions <= 0 {
		cfg.VectorDimensions = defaultVectorDimensions
	}

	return factory(cfg)
}
