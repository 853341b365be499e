// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package memory implements the storage backend on mutex-guarded maps.
// Reads share the lock; the two multi-table mutations run under the write
// lock, which gives the same all-or-nothing visibility as the sqlite
// backend's transactions. Intended for tests and cgo-free embedding.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/reunite-dev/reunite/internal/store"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
	"github.com/reunite-dev/reunite/pkg/types"
)

func init() {
	store.RegisterBackend("memory", func(cfg store.Config) (store.Store, error) {
		return New(cfg.VectorDimensions), nil
	})
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

type caseRow struct {
	record    types.CaseRecord
	embedding []float32
}

// Store implements store.Store in memory.
type Store struct {
	mu   sync.RWMutex
	dims int

	nextCaseID  int64
	nextNotifID int64

	active map[int64]*caseRow
	found  map[int64]*caseRow

	notifications map[int64]*types.Notification
}

// New creates an empty in-memory store with the given vector dimension.
func New(dimensions int) *Store {
	return &Store{
		dims:          dimensions,
		active:        map[int64]*caseRow{},
		found:         map[int64]*caseRow{},
		notifications: map[int64]*types.Notification{},
	}
}

func (s *Store) Cases() store.CaseStore                 { return &caseStore{s} }
func (s *Store) Vectors() store.VectorStore             { return &vectorStore{s} }
func (s *Store) Notifications() store.NotificationStore { return &notificationStore{s} }

func (s *Store) CreateCase(ctx context.Context, details types.CaseDetails, embedding []float32, ownerID int64) (*types.CaseRecord, error) {
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if err := store.ValidateEmbedding(s.dims, embedding); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCaseID++
	rec := types.CaseRecord{
		ID:          s.nextCaseID,
		CaseDetails: details,
		CreatedBy:   ownerID,
		State:       types.StateActive,
		CreatedAt:   time.Now().UTC(),
	}
	s.active[rec.ID] = &caseRow{record: rec, embedding: slices.Clone(embedding)}

	out := rec
	return &out, nil
}

func (s *Store) ResolveCase(ctx context.Context, id int64) (*types.CaseRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.active[id]
	if !ok {
		return nil, false, nil
	}

	row.record.State = types.StateFound
	s.found[id] = row
	delete(s.active, id)

	out := row.record
	return &out, true, nil
}

func (s *Store) Close() error { return nil }

// --- case store ---

type caseStore struct{ s *Store }

func (c *caseStore) Get(ctx context.Context, id int64) (*types.CaseRecord, error) {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	if row, ok := c.s.active[id]; ok {
		out := row.record
		return &out, nil
	}
	if row, ok := c.s.found[id]; ok {
		out := row.record
		return &out, nil
	}
	return nil, reunerr.New(reunerr.CodeCaseNotFound, "case not found", reunerr.FieldCaseID(id))
}

func (c *caseStore) ListActive(ctx context.Context) ([]*types.CaseRecord, error) {
	return c.list(c.s.active, nil), nil
}

func (c *caseStore) ListFound(ctx context.Context) ([]*types.CaseRecord, error) {
	return c.list(c.s.found, nil), nil
}

func (c *caseStore) ListOwnedBy(ctx context.Context, userID int64) ([]*types.CaseRecord, error) {
	return c.list(c.s.active, func(r *types.CaseRecord) bool { return r.CreatedBy == userID }), nil
}

// list snapshots matching records newest-first (descending id).
func (c *caseStore) list(partition map[int64]*caseRow, keep func(*types.CaseRecord) bool) []*types.CaseRecord {
	c.s.mu.RLock()
	defer c.s.mu.RUnlock()

	var records []*types.CaseRecord
	for _, row := range partition {
		if keep != nil && !keep(&row.record) {
			continue
		}
		out := row.record
		records = append(records, &out)
	}
	slices.SortFunc(records, func(a, b *types.CaseRecord) int {
		return cmp.Compare(b.ID, a.ID)
	})
	return records
}

// --- vector store ---

type vectorStore struct{ s *Store }

func (v *vectorStore) Dimensions() int { return v.s.dims }

func (v *vectorStore) Put(ctx context.Context, id int64, embedding []float32) error {
	if err := store.ValidateEmbedding(v.s.dims, embedding); err != nil {
		return err
	}

	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if row, ok := v.s.active[id]; ok {
		row.embedding = slices.Clone(embedding)
		return nil
	}
	if row, ok := v.s.found[id]; ok {
		row.embedding = slices.Clone(embedding)
		return nil
	}
	return reunerr.New(reunerr.CodeCaseNotFound, "no case record owns this vector id", reunerr.FieldCaseID(id))
}

func (v *vectorStore) Get(ctx context.Context, id int64) ([]float32, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	if row, ok := v.s.active[id]; ok && row.embedding != nil {
		return slices.Clone(row.embedding), nil
	}
	if row, ok := v.s.found[id]; ok && row.embedding != nil {
		return slices.Clone(row.embedding), nil
	}
	return nil, reunerr.New(reunerr.CodeVectorNotFound, "vector not found", reunerr.FieldCaseID(id))
}

func (v *vectorStore) Scan(ctx context.Context, state types.CaseState) ([]store.Candidate, error) {
	if !state.Valid() {
		return nil, reunerr.Errorf(reunerr.CodeStoreInvalidInput, "unknown case partition %q", state)
	}

	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	partition := v.s.active
	if state == types.StateFound {
		partition = v.s.found
	}

	var candidates []store.Candidate
	for _, row := range partition {
		if row.embedding == nil {
			continue
		}
		rec := row.record
		candidates = append(candidates, store.Candidate{
			Case:      &rec,
			Embedding: slices.Clone(row.embedding),
		})
	}
	slices.SortFunc(candidates, func(a, b store.Candidate) int {
		return cmp.Compare(a.Case.ID, b.Case.ID)
	})
	return candidates, nil
}

func (v *vectorStore) Remove(ctx context.Context, id int64) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if row, ok := v.s.active[id]; ok {
		row.embedding = nil
	}
	if row, ok := v.s.found[id]; ok {
		row.embedding = nil
	}
	return nil
}

// --- notification store ---

type notificationStore struct{ s *Store }

func (n *notificationStore) Append(ctx context.Context, userID int64, message string) (*types.Notification, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	n.s.nextNotifID++
	notif := types.Notification{
		ID:        n.s.nextNotifID,
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	n.s.notifications[notif.ID] = &notif

	out := notif
	return &out, nil
}

func (n *notificationStore) ListForUser(ctx context.Context, userID int64) ([]*types.Notification, error) {
	n.s.mu.RLock()
	defer n.s.mu.RUnlock()

	var notifications []*types.Notification
	for _, notif := range n.s.notifications {
		if notif.UserID != userID {
			continue
		}
		out := *notif
		notifications = append(notifications, &out)
	}
	slices.SortFunc(notifications, func(a, b *types.Notification) int {
		return cmp.Compare(b.ID, a.ID)
	})
	return notifications, nil
}

func (n *notificationStore) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	notif, ok := n.s.notifications[id]
	if !ok || notif.UserID != userID {
		return false, nil
	}
	notif.Read = true
	return true, nil
}
