// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package notify exposes the per-user notification ledger: an append-only
// message log with owner-scoped acknowledgement.
package notify

import (
	"context"
	"log/slog"

	"github.com/reunite-dev/reunite/internal/store"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
	"github.com/reunite-dev/reunite/pkg/types"
)

// Ledger is the notification service over a NotificationStore.
type Ledger struct {
	store  store.NotificationStore
	logger *slog.Logger
}

// New creates a Ledger.
func New(st store.NotificationStore, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: st, logger: logger}
}

// Append records a new unread notification for userID.
func (l *Ledger) Append(ctx context.Context, userID int64, message string) (*types.Notification, error) {
	if message == "" {
		return nil, reunerr.New(reunerr.CodeStoreInvalidInput, "notification message must not be empty")
	}

	notif, err := l.store.Append(ctx, userID, message)
	if err != nil {
		return nil, err
	}

	l.logger.Debug("notification appended",
		slog.Int64("notification_id", notif.ID),
		slog.Int64("user_id", userID))
	return notif, nil
}

// ListForUser returns the user's notifications newest-first.
func (l *Ledger) ListForUser(ctx context.Context, userID int64) ([]*types.Notification, error) {
	return l.store.ListForUser(ctx, userID)
}

// Acknowledge marks the notification read on behalf of requestingUserID.
// It returns false, not an error, when the notification does not exist or
// belongs to someone else. Acknowledging an already-read notification
// returns true and changes nothing.
func (l *Ledger) Acknowledge(ctx context.Context, notificationID, requestingUserID int64) (bool, error) {
	return l.store.MarkRead(ctx, notificationID, requestingUserID)
}
