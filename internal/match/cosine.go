// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package match implements exact cosine-similarity search over the active
// case partition.
package match

import (
	"math"

	reunerr "github.com/reunite-dev/reunite/pkg/errors"
)

// Cosine computes the cosine similarity dot(a,b) / (‖a‖·‖b‖) in a single
// pass, accumulating in float64. When either vector has zero norm the
// similarity is undefined and an error with CodeSimilarityUndefined is
// returned instead of a NaN.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, reunerr.Errorf(reunerr.CodeVectorDimensionMismatch,
			"vector sizes do not match: %d vs %d", len(a), len(b))
	}

	var dot, na, nb float64
	for i := range a {
		x := float64(a[i])
		y := float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}

	if na == 0 || nb == 0 {
		return 0, reunerr.New(reunerr.CodeSimilarityUndefined,
			"cosine similarity is undefined for a zero-norm vector")
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}
