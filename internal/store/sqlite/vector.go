// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/reunite-dev/reunite/internal/store"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
	"github.com/reunite-dev/reunite/pkg/types"
)

// Compile-time interface check.
var _ store.VectorStore = (*vectorStore)(nil)

type vectorStore struct {
	db   *sql.DB
	dims int
}

func (v *vectorStore) Dimensions() int { return v.dims }

// Put inserts or replaces the vector for id.
func (v *vectorStore) Put(ctx context.Context, id int64, embedding []float32) error {
	if err := store.ValidateEmbedding(v.dims, embedding); err != nil {
		return err
	}

	blob, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "serializing embedding", reunerr.FieldCaseID(id))
	}

	const q = `INSERT INTO vectors (case_id, embedding) VALUES (?, ?)
ON CONFLICT(case_id) DO UPDATE SET embedding = excluded.embedding`
	if _, err := v.db.ExecContext(ctx, q, id, blob); err != nil {
		return reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "upserting vector", reunerr.FieldCaseID(id))
	}
	return nil
}

func (v *vectorStore) Get(ctx context.Context, id int64) ([]float32, error) {
	var blob []byte
	err := v.db.QueryRowContext(ctx, `SELECT embedding FROM vectors WHERE case_id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, reunerr.New(reunerr.CodeVectorNotFound, "vector not found", reunerr.FieldCaseID(id))
	}
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "reading vector", reunerr.FieldCaseID(id))
	}
	return deserializeFloat32(blob)
}

// Scan joins the vector table against the partition's case table inside a
// single query, so each candidate's record is guaranteed to occupy that
// partition at snapshot time and no vector is ever seen without its record.
func (v *vectorStore) Scan(ctx context.Context, state types.CaseState) ([]store.Candidate, error) {
	if !state.Valid() {
		return nil, reunerr.Errorf(reunerr.CodeStoreInvalidInput, "unknown case partition %q", state)
	}

	table := "active_cases"
	if state == types.StateFound {
		table = "found_cases"
	}

	q := `SELECT c.id, c.name, c.age, c.gender, c.loc, c.notes, c.created_by, c.created_at, v.embedding
FROM ` + table + ` c JOIN vectors v ON v.case_id = c.id ORDER BY c.id`

	rows, err := v.db.QueryContext(ctx, q)
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "scanning vector partition")
	}
	defer func() { _ = rows.Close() }()

	var candidates []store.Candidate
	for rows.Next() {
		var rec types.CaseRecord
		var createdAt string
		var blob []byte
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&rec.Age,
			&rec.Gender,
			&rec.Location,
			&rec.Notes,
			&rec.CreatedBy,
			&createdAt,
			&blob,
		); err != nil {
			return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "scanning candidate row")
		}
		rec.State = state
		rec.CreatedAt = parseTime(createdAt)

		embedding, err := deserializeFloat32(blob)
		if err != nil {
			return nil, reunerr.With(err, reunerr.FieldCaseID(rec.ID))
		}
		candidates = append(candidates, store.Candidate{Case: &rec, Embedding: embedding})
	}
	if err := rows.Err(); err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "iterating candidate rows")
	}

	return candidates, nil
}

// Remove deletes the vector for id. Idempotent.
func (v *vectorStore) Remove(ctx context.Context, id int64) error {
	if _, err := v.db.ExecContext(ctx, `DELETE FROM vectors WHERE case_id = ?`, id); err != nil {
		return reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "removing vector", reunerr.FieldCaseID(id))
	}
	return nil
}

// deserializeFloat32 decodes the sqlite-vec blob format: consecutive
// little-endian IEEE 754 float32 values.
func deserializeFloat32(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, reunerr.Errorf(reunerr.CodeStoreDatabaseFailure,
			"embedding blob of %d bytes is not a float32 sequence", len(blob))
	}
	out := make([]float32, len(blob)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return out, nil
}
