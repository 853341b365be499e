// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package lifecycle orchestrates the active-to-found case transition.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reunite-dev/reunite/internal/notify"
	"github.com/reunite-dev/reunite/internal/store"
	"github.com/reunite-dev/reunite/pkg/types"
)

// Controller moves cases from the active to the found partition and
// notifies the case owner. Found is terminal: no re-activation exists.
type Controller struct {
	store  store.Store
	ledger *notify.Ledger
	logger *slog.Logger
}

// New creates a Controller.
func New(st store.Store, ledger *notify.Ledger, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{store: st, ledger: ledger, logger: logger}
}

// Resolve relocates the case to the found partition and appends a
// notification for its creator. A case absent from the active partition
// (already resolved, or never existed) yields Found=false and no error.
//
// The notification is deliberately appended after the lifecycle
// transaction commits: a failed append is logged and the resolution still
// reports success, because losing a notification is recoverable while
// rolling back a committed transition is not.
func (c *Controller) Resolve(ctx context.Context, caseID int64) (types.Resolution, error) {
	rec, moved, err := c.store.ResolveCase(ctx, caseID)
	if err != nil {
		return types.Resolution{}, err
	}
	if !moved {
		c.logger.Debug("resolve skipped: case not in active partition",
			slog.Int64("case_id", caseID))
		return types.Resolution{}, nil
	}

	c.logger.Info("case resolved",
		slog.Int64("case_id", rec.ID),
		slog.Int64("owner_id", rec.CreatedBy))

	message := fmt.Sprintf("Update: Your registered case for '%s' has been marked as found by an administrator.", rec.Name)
	if _, err := c.ledger.Append(ctx, rec.CreatedBy, message); err != nil {
		c.logger.Error("appending resolution notification failed",
			slog.Int64("case_id", rec.ID),
			slog.Int64("user_id", rec.CreatedBy),
			slog.String("error", err.Error()))
	}

	return types.Resolution{
		Found:          true,
		NotifiedUserID: rec.CreatedBy,
		CaseName:       rec.Name,
	}, nil
}
