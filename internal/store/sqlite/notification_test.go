// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationStore_AppendAndList(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "notif-append")

	first, err := st.Notifications().Append(ctx, 7, "first update")
	require.NoError(t, err)
	assert.False(t, first.Read)

	second, err := st.Notifications().Append(ctx, 7, "second update")
	require.NoError(t, err)

	_, err = st.Notifications().Append(ctx, 8, "someone else's update")
	require.NoError(t, err)

	notifs, err := st.Notifications().ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, notifs, 2)
	// Newest first.
	assert.Equal(t, second.ID, notifs[0].ID)
	assert.Equal(t, first.ID, notifs[1].ID)
	assert.Equal(t, "second update", notifs[0].Message)
}

func TestNotificationStore_MarkRead(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "notif-read")

	notif, err := st.Notifications().Append(ctx, 7, "case update")
	require.NoError(t, err)

	ok, err := st.Notifications().MarkRead(ctx, notif.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	notifs, err := st.Notifications().ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.True(t, notifs[0].Read)

	// Second acknowledge is a successful no-op.
	ok, err = st.Notifications().MarkRead(ctx, notif.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNotificationStore_MarkRead_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "notif-owner")

	notif, err := st.Notifications().Append(ctx, 7, "case update")
	require.NoError(t, err)

	ok, err := st.Notifications().MarkRead(ctx, notif.ID, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	notifs, err := st.Notifications().ListForUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.False(t, notifs[0].Read)
}

func TestNotificationStore_MarkRead_Absent(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "notif-absent")

	ok, err := st.Notifications().MarkRead(ctx, 99, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}
