// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package sqlite_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	reunerr "github.com/reunite-dev/reunite/pkg/errors"
	"github.com/reunite-dev/reunite/pkg/types"
)

func TestVectorStore_PutReplacesAndGet(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "vec-put")

	rec, err := st.CreateCase(ctx, testDetails("Amira"), []float32{1, 0, 0, 0}, 7)
	require.NoError(t, err)

	err = st.Vectors().Put(ctx, rec.ID, []float32{0, 1, 0, 0})
	require.NoError(t, err)

	vec, err := st.Vectors().Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1, 0, 0}, vec)
}

func TestVectorStore_PutRejectsBadVectors(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "vec-reject")

	err := st.Vectors().Put(ctx, 1, []float32{1, 0})
	require.Error(t, err)
	assert.True(t, reunerr.IsDimensionMismatch(err))

	err = st.Vectors().Put(ctx, 1, []float32{1, 0, 0, float32(math.NaN())})
	require.Error(t, err)
	assert.True(t, reunerr.IsInvalidInput(err))
	assert.False(t, reunerr.IsDimensionMismatch(err))
}

func TestVectorStore_GetNotFound(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "vec-missing")

	_, err := st.Vectors().Get(ctx, 42)
	require.Error(t, err)
	assert.True(t, reunerr.IsNotFound(err))
}

func TestVectorStore_RemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "vec-remove")

	rec, err := st.CreateCase(ctx, testDetails("Amira"), []float32{1, 0, 0, 0}, 7)
	require.NoError(t, err)

	require.NoError(t, st.Vectors().Remove(ctx, rec.ID))
	require.NoError(t, st.Vectors().Remove(ctx, rec.ID))

	_, err = st.Vectors().Get(ctx, rec.ID)
	assert.True(t, reunerr.IsNotFound(err))
}

func TestVectorStore_ScanPairsVectorWithRecord(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "vec-scan")

	a, err := st.CreateCase(ctx, testDetails("Amira"), []float32{1, 0, 0, 0}, 7)
	require.NoError(t, err)
	b, err := st.CreateCase(ctx, testDetails("Benoit"), []float32{0, 1, 0, 0}, 8)
	require.NoError(t, err)

	candidates, err := st.Vectors().Scan(ctx, types.StateActive)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, a.ID, candidates[0].Case.ID)
	assert.Equal(t, []float32{1, 0, 0, 0}, candidates[0].Embedding)
	assert.Equal(t, b.ID, candidates[1].Case.ID)
	assert.Equal(t, "Benoit", candidates[1].Case.Name)

	candidates, err = st.Vectors().Scan(ctx, types.StateFound)
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestVectorStore_ScanRejectsUnknownPartition(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "vec-scan-bad")

	_, err := st.Vectors().Scan(ctx, types.CaseState("archived"))
	require.Error(t, err)
	assert.True(t, reunerr.IsInvalidInput(err))
}

func TestVectorStore_Dimensions(t *testing.T) {
	st := openStore(t, "vec-dims")
	assert.Equal(t, testDims, st.Vectors().Dimensions())
}
