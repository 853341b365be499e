// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package sqlite implements the storage backend on a single SQLite
// database. The two case partitions are twin tables sharing a schema; the
// vector table is keyed by case id, and a vector's partition is derived by
// joining against the case table that currently holds its id, so record
// and vector can never disagree about which partition a case occupies.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/reunite-dev/reunite/internal/store"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
	"github.com/reunite-dev/reunite/pkg/types"
)

func init() {
	// Embeddings are stored with the sqlite-vec serialization; registering
	// the extension keeps the blobs queryable with vec_* SQL functions.
	sqlite_vec.Auto()
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// Store implements store.Store backed by SQLite.
type Store struct {
	db   *sql.DB
	dims int
}

// Open opens (or creates) a SQLite database at dbPath and initialises the
// case, vector, and notification tables. Write transactions take the
// database lock immediately so concurrent multi-table mutations serialize.
func Open(dbPath string, dimensions int) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate")
	if err != nil {
		return nil, reunerr.Wrapf(err, reunerr.CodeStoreUnavailable, "opening sqlite db %s", dbPath)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, reunerr.Wrapf(err, reunerr.CodeStoreUnavailable, "pinging sqlite db %s", dbPath)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, reunerr.Wrapf(err, reunerr.CodeStoreDatabaseFailure, "migrating sqlite db %s", dbPath)
	}

	return &Store{db: db, dims: dimensions}, nil
}

func migrate(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS active_cases (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	age        INTEGER NOT NULL,
	gender     TEXT NOT NULL DEFAULT '',
	loc        TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	created_by INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_active_cases_owner ON active_cases(created_by);

CREATE TABLE IF NOT EXISTS found_cases (
	id         INTEGER PRIMARY KEY,
	name       TEXT NOT NULL,
	age        INTEGER NOT NULL,
	gender     TEXT NOT NULL DEFAULT '',
	loc        TEXT NOT NULL DEFAULT '',
	notes      TEXT NOT NULL DEFAULT '',
	created_by INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vectors (
	case_id   INTEGER PRIMARY KEY,
	embedding BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL,
	message    TEXT NOT NULL,
	is_read    INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);
`
	_, err := db.Exec(ddl)
	return err
}

func (s *Store) Cases() store.CaseStore                 { return &caseStore{db: s.db} }
func (s *Store) Vectors() store.VectorStore             { return &vectorStore{db: s.db, dims: s.dims} }
func (s *Store) Notifications() store.NotificationStore { return &notificationStore{db: s.db} }

// CreateCase inserts the record into the active partition and its embedding
// into the vector table as one transaction.
func (s *Store) CreateCase(ctx context.Context, details types.CaseDetails, embedding []float32, ownerID int64) (*types.CaseRecord, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if err := store.ValidateEmbedding(s.dims, embedding); err != nil {
		return nil, err
	}

	blob, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "serializing embedding")
	}

	createdAt := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreUnavailable, "beginning create transaction")
	}
	defer func() { _ = tx.Rollback() }()

	const insCase = `INSERT INTO active_cases (name, age, gender, loc, notes, created_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insCase,
		details.Name,
		details.Age,
		details.Gender,
		details.Location,
		details.Notes,
		ownerID,
		formatTime(createdAt),
	)
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "inserting case record")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "reading new case id")
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO vectors (case_id, embedding) VALUES (?, ?)`, id, blob); err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "inserting case vector", reunerr.FieldCaseID(id))
	}

	if err := tx.Commit(); err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "committing case create", reunerr.FieldCaseID(id))
	}

	return &types.CaseRecord{
		ID:          id,
		CaseDetails: details,
		CreatedBy:   ownerID,
		State:       types.StateActive,
		CreatedAt:   createdAt,
	}, nil
}

// ResolveCase relocates the case from active_cases to found_cases in one
// transaction. The vector's partition membership follows the record
// automatically because it is derived from the case tables. The delete's
// affected-row count decides the winner when resolves race on one id.
func (s *Store) ResolveCase(ctx context.Context, id int64) (*types.CaseRecord, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, reunerr.Wrap(err, reunerr.CodeStoreUnavailable, "beginning resolve transaction")
	}
	defer func() { _ = tx.Rollback() }()

	rec, err := scanCase(tx.QueryRowContext(ctx, selectCase("active_cases")+` WHERE id = ?`, id), types.StateActive)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "reading active case", reunerr.FieldCaseID(id))
	}

	const relocate = `INSERT INTO found_cases (id, name, age, gender, loc, notes, created_by, created_at)
SELECT id, name, age, gender, loc, notes, created_by, created_at FROM active_cases WHERE id = ?`
	if _, err := tx.ExecContext(ctx, relocate, id); err != nil {
		return nil, false, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "copying case to found partition", reunerr.FieldCaseID(id))
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM active_cases WHERE id = ?`, id)
	if err != nil {
		return nil, false, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "removing case from active partition", reunerr.FieldCaseID(id))
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, false, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "checking rows affected", reunerr.FieldCaseID(id))
	}
	if rows != 1 {
		return nil, false, reunerr.Errorf(reunerr.CodeStoreDatabaseFailure,
			"resolve of case %d removed %d active rows", id, rows)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "committing resolve", reunerr.FieldCaseID(id))
	}

	rec.State = types.StateFound
	return rec, true, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// formatTime serialises a time.Time to RFC3339 with nanosecond precision.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
