// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package match

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/reunite-dev/reunite/internal/store"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
	"github.com/reunite-dev/reunite/pkg/types"
)

// Engine ranks active cases by cosine similarity to a query vector. The
// scan is exact: every active vector is compared, no index is consulted.
type Engine struct {
	vectors store.VectorStore
	logger  *slog.Logger
	workers int
}

// New creates a search engine over the given vector store.
func New(vectors store.VectorStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		vectors: vectors,
		logger:  logger,
		workers: runtime.GOMAXPROCS(0),
	}
}

// Search returns the active cases whose similarity to query is at least
// threshold (inclusive), ordered by similarity descending with ascending
// case id breaking exact ties. Comparisons against a zero-norm stored
// vector are undefined; they are skipped and logged, never propagated.
// Search is a pure read over one consistent snapshot of the active
// partition.
func (e *Engine) Search(ctx context.Context, query []float32, threshold float64) ([]types.MatchResult, error) {
	if math.IsNaN(threshold) || threshold < -1 || threshold > 1 {
		return nil, reunerr.Errorf(reunerr.CodeThresholdInvalid,
			"strictness threshold must lie in [-1, 1], got %v", threshold)
	}
	if err := store.ValidateEmbedding(e.vectors.Dimensions(), query); err != nil {
		return nil, err
	}

	candidates, err := e.vectors.Scan(ctx, types.StateActive)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	// Workers fill disjoint index ranges; NaN marks a skipped comparison.
	similarities := make([]float64, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	for _, chunk := range chunkRanges(len(candidates), e.workers) {
		g.Go(func() error {
			for i := chunk.start; i < chunk.end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				sim, err := Cosine(query, candidates[i].Embedding)
				if err != nil {
					if reunerr.IsSimilarityUndefined(err) {
						e.logger.Debug("skipping zero-norm vector during search",
							slog.Int64("case_id", candidates[i].Case.ID))
						similarities[i] = math.NaN()
						continue
					}
					return reunerr.With(err, reunerr.FieldCaseID(candidates[i].Case.ID))
				}
				similarities[i] = sim
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []types.MatchResult
	for i, c := range candidates {
		sim := similarities[i]
		if math.IsNaN(sim) || sim < threshold {
			continue
		}
		results = append(results, types.MatchResult{Case: *c.Case, Similarity: sim})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Case.ID < results[j].Case.ID
	})

	return results, nil
}

type indexRange struct {
	start, end int
}

// chunkRanges splits [0, n) into at most workers contiguous ranges.
func chunkRanges(n, workers int) []indexRange {
	if workers < 1 {
		workers = 1
	}
	size := (n + workers - 1) / workers

	var chunks []indexRange
	for start := 0; start < n; start += size {
		chunks = append(chunks, indexRange{start: start, end: min(start+size, n)})
	}
	return chunks
}
