// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package store defines the storage contracts for the matching engine and
// the backend factory registry. Backends live in subpackages and register
// themselves from init().
package store

import (
	"context"

	"github.com/reunite-dev/reunite/pkg/types"
)

// Candidate is one entry of a partition scan: a case record snapshot
// together with its embedding. The pairing is taken under a single
// consistent snapshot, so a candidate's record is guaranteed to have been
// in the scanned partition at scan start.
type Candidate struct {
	Case      *types.CaseRecord
	Embedding []float32
}

// CaseStore reads case attribute records from the two lifecycle partitions.
type CaseStore interface {
	// Get returns the record for id from either partition, active first.
	Get(ctx context.Context, id int64) (*types.CaseRecord, error)
	ListActive(ctx context.Context) ([]*types.CaseRecord, error)
	ListFound(ctx context.Context) ([]*types.CaseRecord, error)
	// ListOwnedBy returns the active cases created by userID.
	ListOwnedBy(ctx context.Context, userID int64) ([]*types.CaseRecord, error)
}

// VectorStore holds embedding vectors keyed by case id. Every vector has
// exactly Dimensions() components; a mismatched length is rejected, never
// padded or truncated.
type VectorStore interface {
	// Put inserts or replaces the vector for id.
	Put(ctx context.Context, id int64, embedding []float32) error
	Get(ctx context.Context, id int64) ([]float32, error)
	// Scan iterates a consistent snapshot of the vectors whose owning case
	// record occupies the given partition.
	Scan(ctx context.Context, state types.CaseState) ([]Candidate, error)
	// Remove deletes the vector for id. Removing an absent id is not an
	// error at this layer.
	Remove(ctx context.Context, id int64) error
	Dimensions() int
}

// NotificationStore is the append-only per-user message log.
type NotificationStore interface {
	Append(ctx context.Context, userID int64, message string) (*types.Notification, error)
	// ListForUser returns the user's notifications newest-first.
	ListForUser(ctx context.Context, userID int64) ([]*types.Notification, error)
	// MarkRead marks the notification read iff it exists and belongs to
	// userID. Marking an already-read notification succeeds and is a no-op.
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
}

// Store is a complete storage backend. The two multi-table mutations live
// here rather than on the component stores because they must be atomic
// across the case and vector tables: both apply, or neither does.
type Store interface {
	Cases() CaseStore
	Vectors() VectorStore
	Notifications() NotificationStore

	// CreateCase assigns a fresh id and persists the record (active
	// partition) and its embedding as one transaction.
	CreateCase(ctx context.Context, details types.CaseDetails, embedding []float32, ownerID int64) (*types.CaseRecord, error)

	// ResolveCase relocates the case from active to found as one
	// transaction. The boolean is false when id was absent from the active
	// partition; concurrent calls on the same id yield exactly one true.
	ResolveCase(ctx context.Context, id int64) (*types.CaseRecord, bool, error)

	Close() error
}
