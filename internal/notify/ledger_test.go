// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package notify_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reunite-dev/reunite/internal/notify"
	"github.com/reunite-dev/reunite/internal/store/memory"
	reunerr "github.com/reunite-dev/reunite/pkg/errors"
)

func newLedger(t *testing.T) *notify.Ledger {
	t.Helper()
	return notify.New(memory.New(2).Notifications(), nil)
}

func TestLedger_AppendAndList(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)

	first, err := ledger.Append(ctx, 7, "first update")
	require.NoError(t, err)
	assert.False(t, first.Read)

	second, err := ledger.Append(ctx, 7, "second update")
	require.NoError(t, err)

	notifs, err := ledger.ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	assert.Equal(t, second.ID, notifs[0].ID)
	assert.Equal(t, first.ID, notifs[1].ID)
}

func TestLedger_AppendRejectsEmptyMessage(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)

	_, err := ledger.Append(ctx, 7, "")
	require.Error(t, err)
	assert.True(t, reunerr.IsInvalidInput(err))
}

func TestLedger_AcknowledgeIdempotent(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)

	notif, err := ledger.Append(ctx, 7, "update")
	require.NoError(t, err)

	ok, err := ledger.Acknowledge(ctx, notif.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.Acknowledge(ctx, notif.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	notifs, err := ledger.ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.True(t, notifs[0].Read)
}

func TestLedger_AcknowledgeOwnership(t *testing.T) {
	ctx := context.Background()
	ledger := newLedger(t)

	notif, err := ledger.Append(ctx, 7, "update")
	require.NoError(t, err)

	ok, err := ledger.Acknowledge(ctx, notif.ID, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ledger.Acknowledge(ctx, 999, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}
