// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package sqlite

import (
	"github.com/reunite-dev/reunite/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", func(cfg store.Config) (store.Store, error) {
		return Open(cfg.Path, cfg.VectorDimensions)
	})
}
