// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package reunite is the identity matching and case lifecycle engine: it
// matches fixed-length biometric embedding vectors against open
// missing-person cases, moves cases from active to found atomically, and
// keeps a per-user notification ledger. The caller (a web/auth layer
// outside this module) supplies already-verified identities and finished
// embedding vectors; this package never sees credentials or raw imagery.
package reunite

import (
	"context"
	"log/slog"

	"github.com/reunite-dev/reunite/config"
	"github.com/reunite-dev/reunite/internal/lifecycle"
	"github.com/reunite-dev/reunite/internal/match"
	"github.com/reunite-dev/reunite/internal/notify"
	"github.com/reunite-dev/reunite/internal/store"
	"github.com/reunite-dev/reunite/pkg/types"

	// Storage backends register themselves with the store factory.
	_ "github.com/reunite-dev/reunite/internal/store/memory"
	_ "github.com/reunite-dev/reunite/internal/store/sqlite"
)

// Engine wires the store, search engine, lifecycle controller, and
// notification ledger behind the operations the caller needs. It owns the
// store handle: open with New, release with Close.
type Engine struct {
	store            store.Store
	search           *match.Engine
	lifecycle        *lifecycle.Controller
	ledger           *notify.Ledger
	logger           *slog.Logger
	defaultThreshold float64
}

type options struct {
	cfg    *config.Config
	logger *slog.Logger
}

// Option customises engine construction.
type Option func(*options)

// WithConfig supplies a full configuration (e.g. from config.Load).
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithBackend overrides the storage backend name ("sqlite" or "memory").
func WithBackend(backend string) Option {
	return func(o *options) { o.cfg.Storage.Backend = backend }
}

// WithStoragePath overrides the database file path.
func WithStoragePath(path string) Option {
	return func(o *options) { o.cfg.Storage.Path = path }
}

// WithDimensions overrides the embedding dimension D. D is fixed for the
// lifetime of the store; every vector must have exactly D components.
func WithDimensions(dims int) Option {
	return func(o *options) { o.cfg.Storage.VectorDimensions = dims }
}

// WithDefaultThreshold overrides the fallback strictness threshold used by
// SearchDefault.
func WithDefaultThreshold(threshold float64) Option {
	return func(o *options) { o.cfg.Search.DefaultThreshold = threshold }
}

// New opens the storage backend and assembles the engine.
func New(opts ...Option) (*Engine, error) {
	o := options{cfg: config.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	if errs := o.cfg.Validate(); len(errs) > 0 {
		return nil, errs[0]
	}

	st, err := store.New(store.Config{
		Backend:          o.cfg.Storage.Backend,
		Path:             o.cfg.Storage.Path,
		VectorDimensions: o.cfg.Storage.VectorDimensions,
	})
	if err != nil {
		return nil, err
	}

	ledger := notify.New(st.Notifications(), o.logger)

	return &Engine{
		store:            st,
		search:           match.New(st.Vectors(), o.logger),
		lifecycle:        lifecycle.New(st, ledger, o.logger),
		ledger:           ledger,
		logger:           o.logger,
		defaultThreshold: o.cfg.Search.DefaultThreshold,
	}, nil
}

// CreateCase registers a new missing-person case owned by ownerID. The
// record and its embedding are persisted atomically: both exist afterwards,
// or neither does.
func (e *Engine) CreateCase(ctx context.Context, details types.CaseDetails, embedding []float32, ownerID int64) (*types.CaseRecord, error) {
	rec, err := e.store.CreateCase(ctx, details, embedding, ownerID)
	if err != nil {
		return nil, err
	}

	e.logger.Info("case created",
		slog.Int64("case_id", rec.ID),
		slog.Int64("owner_id", ownerID))
	return rec, nil
}

// Search ranks active cases by cosine similarity to the query vector,
// keeping matches with similarity >= threshold.
func (e *Engine) Search(ctx context.Context, embedding []float32, threshold float64) ([]types.MatchResult, error) {
	return e.search.Search(ctx, embedding, threshold)
}

// SearchDefault runs Search with the configured fallback strictness.
func (e *Engine) SearchDefault(ctx context.Context, embedding []float32) ([]types.MatchResult, error) {
	return e.search.Search(ctx, embedding, e.defaultThreshold)
}

// Get returns the case with the given id from either partition.
func (e *Engine) Get(ctx context.Context, caseID int64) (*types.CaseRecord, error) {
	return e.store.Cases().Get(ctx, caseID)
}

// ListActive returns all open cases, newest first.
func (e *Engine) ListActive(ctx context.Context) ([]*types.CaseRecord, error) {
	return e.store.Cases().ListActive(ctx)
}

// ListFound returns all resolved cases, newest first.
func (e *Engine) ListFound(ctx context.Context) ([]*types.CaseRecord, error) {
	return e.store.Cases().ListFound(ctx)
}

// ListOwned returns the open cases created by ownerID, newest first.
func (e *Engine) ListOwned(ctx context.Context, ownerID int64) ([]*types.CaseRecord, error) {
	return e.store.Cases().ListOwnedBy(ctx, ownerID)
}

// Resolve marks the case as found and notifies its creator. Resolving a
// case that is not in the active partition yields Found=false, not an
// error; racing resolves on one id produce exactly one Found=true.
func (e *Engine) Resolve(ctx context.Context, caseID int64) (types.Resolution, error) {
	return e.lifecycle.Resolve(ctx, caseID)
}

// Notifications returns userID's notifications, newest first.
func (e *Engine) Notifications(ctx context.Context, userID int64) ([]*types.Notification, error) {
	return e.ledger.ListForUser(ctx, userID)
}

// AcknowledgeNotification marks a notification read on behalf of userID.
// False means the notification does not exist or is not theirs.
func (e *Engine) AcknowledgeNotification(ctx context.Context, notificationID, userID int64) (bool, error) {
	return e.ledger.Acknowledge(ctx, notificationID, userID)
}

// Close releases the underlying store.
func (e *Engine) Close() error {
	return e.store.Close()
}
