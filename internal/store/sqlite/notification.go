// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/reunite-dev/reunite/internal/store"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
	"github.com/reunite-dev/reunite/pkg/types"
)

// Compile-time interface check.
var _ store.NotificationStore = (*notificationStore)(nil)

type notificationStore struct {
	db *sql.DB
}

func (n *notificationStore) Append(ctx context.Context, userID int64, message string) (*types.Notification, error) {
	createdAt := time.Now().UTC()

	const q = `INSERT INTO notifications (user_id, message, is_read, created_at) VALUES (?, ?, 0, ?)`
	res, err := n.db.ExecContext(ctx, q, userID, message, formatTime(createdAt))
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreUnavailable, "appending notification", reunerr.FieldUserID(userID))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreUnavailable, "reading new notification id", reunerr.FieldUserID(userID))
	}

	return &types.Notification{
		ID:        id,
		UserID:    userID,
		Message:   message,
		CreatedAt: createdAt,
	}, nil
}

func (n *notificationStore) ListForUser(ctx context.Context, userID int64) ([]*types.Notification, error) {
	const q = `SELECT id, user_id, message, is_read, created_at
FROM notifications WHERE user_id = ? ORDER BY id DESC`

	rows, err := n.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "listing notifications", reunerr.FieldUserID(userID))
	}
	defer func() { _ = rows.Close() }()

	var notifications []*types.Notification
	for rows.Next() {
		var notif types.Notification
		var createdAt string
		if err := rows.Scan(&notif.ID, &notif.UserID, &notif.Message, &notif.Read, &createdAt); err != nil {
			return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "scanning notification row")
		}
		notif.CreatedAt = parseTime(createdAt)
		notifications = append(notifications, &notif)
	}
	if err := rows.Err(); err != nil {
		return nil, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "iterating notification rows")
	}

	return notifications, nil
}

// MarkRead flips the read flag iff the notification exists and belongs to
// userID. SQLite counts a row as affected even when is_read was already 1,
// which gives the idempotent re-acknowledge for free.
func (n *notificationStore) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	res, err := n.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "marking notification read",
			reunerr.FieldNotificationID(id), reunerr.FieldUserID(userID))
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, reunerr.Wrap(err, reunerr.CodeStoreDatabaseFailure, "checking rows affected",
			reunerr.FieldNotificationID(id))
	}
	return rows > 0, nil
}
