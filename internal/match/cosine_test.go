// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reunite-dev/reunite/internal/match"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
)

func TestCosine_SelfSimilarityIsOne(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0.3, -0.7, 0.648},
		{1e-3, 2e-3, -5e-4},
	}
	for _, v := range vectors {
		sim, err := match.Cosine(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-9)
	}
}

func TestCosine_Orthogonal(t *testing.T) {
	sim, err := match.Cosine([]float32{1, 0}, []float32{0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-9)
}

func TestCosine_Opposite(t *testing.T) {
	sim, err := match.Cosine([]float32{1, 2}, []float32{-1, -2})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, sim, 1e-9)
}

func TestCosine_ZeroNormUndefined(t *testing.T) {
	_, err := match.Cosine([]float32{0, 0}, []float32{1, 0})
	require.Error(t, err)
	assert.True(t, reunerr.IsSimilarityUndefined(err))

	_, err = match.Cosine([]float32{1, 0}, []float32{0, 0})
	require.Error(t, err)
	assert.True(t, reunerr.IsSimilarityUndefined(err))
}

func TestCosine_LengthMismatch(t *testing.T) {
	_, err := match.Cosine([]float32{1, 0}, []float32{1, 0, 0})
	require.Error(t, err)
	assert.True(t, reunerr.IsDimensionMismatch(err))
}
