// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package sqlite

import (
	"context"
	"database/sql"

	"github.com/reunite-dev/reunite/internal/store"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
	"github.com/reunite-dev/reunite/pkg/types"
)

// Compile-time interface check.
var _ store.CaseStore = (*caseStore)(nil)

type caseStore struct {
	db *sql.DB
}

// selectCase returns the shared SELECT column list for a case partition
// table. Both partitions share a schema.
func selectCase(table string) string {
	return `SELECT id, name, age, gender, loc, notes, created_by, created_at FROM ` + table
}

// rowScanner abstracts *sql.Row and *sql.Rows for the shared scan helper.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner, state types.CaseState) (*types.CaseRecord, error) {
	var rec types.CaseRecord
	var createdAt string
	if err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Age,
		&rec.Gender,
		&rec.Location,
		&rec.Notes,
		&rec.CreatedBy,
		&createdAt,
	); err != nil {
		return nil, err
	}
	rec.State = state
	rec.CreatedAt = parseTime(createdAt)
	return &rec, nil
}

func (c *caseStore) Get(ctx context.Context, id int64) (*types.CaseRecord, error) {
	rec, err := scanCase(c.db.QueryRowContext(ctx, selectCase("active_cases")+` WHERE id = ?`, id), types.StateActive)
	if err == nil {
		return rec, nil
	}
	if err != sql.ErrNoRows {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "reading active case", reunerr.FieldCaseID(id))
	}

	rec, err = scanCase(c.db.QueryRowContext(ctx, selectCase("found_cases")+` WHERE id = ?`, id), types.StateFound)
	if err == sql.ErrNoRows {
		return nil, reunerr.New(reunerr.CodeCaseNotFound, "case not found", reunerr.FieldCaseID(id))
	}
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "reading found case", reunerr.FieldCaseID(id))
	}
	return rec, nil
}

func (c *caseStore) ListActive(ctx context.Context) ([]*types.CaseRecord, error) {
	return c.list(ctx, selectCase("active_cases")+` ORDER BY id DESC`, types.StateActive)
}

func (c *caseStore) ListFound(ctx context.Context) ([]*types.CaseRecord, error) {
	return c.list(ctx, selectCase("found_cases")+` ORDER BY id DESC`, types.StateFound)
}

func (c *caseStore) ListOwnedBy(ctx context.Context, userID int64) ([]*types.CaseRecord, error) {
	return c.list(ctx, selectCase("active_cases")+` WHERE created_by = ? ORDER BY id DESC`, types.StateActive, userID)
}

func (c *caseStore) list(ctx context.Context, query string, state types.CaseState, args ...any) ([]*types.CaseRecord, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "listing cases")
	}
	defer func() { _ = rows.Close() }()

	var records []*types.CaseRecord
	for rows.Next() {
		rec, err := scanCase(rows, state)
		if err != nil {
			return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "scanning case row")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "iterating case rows")
	}

	return records, nil
}
