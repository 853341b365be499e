// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package store

import (
	"math"

	reunerr "github.com/reunite-dev/reunite/pkg/errors"
)

// ValidateEmbedding rejects vectors whose length differs from dims or that
// carry a non-finite component. Both backends and the search engine apply
// it at their boundaries; a bad vector is never coerced.
func ValidateEmbedding(dims int, embedding []float32) error {
	if len(embedding) != dims {
		return reunerr.Errorf(reunerr.CodeVectorDimensionMismatch,
			"embedding has %d components, store dimension is %d", len(embedding), dims)
	}
	for i, c := range embedding {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return reunerr.Errorf(reunerr.CodeVectorComponentInvalid,
				"embedding component %d is not finite", i)
		}
	}
	return nil
}
