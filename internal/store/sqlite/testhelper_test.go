// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

package sqlite_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reunite-dev/reunite/internal/store/sqlite"
	"github.com/reunite-dev/reunite/pkg/types"
)

const testDims = 4

// testDir creates a temp directory for a test and returns it.
func testDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "reunite-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// testDBPath returns a temp SQLite database path.
func testDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(testDir(t), name+".db")
}

// openStore opens a fresh store with the test dimension.
func openStore(t *testing.T, name string) *sqlite.Store {
	t.Helper()
	st, err := sqlite.Open(testDBPath(t, name), testDims)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testDetails(name string) types.CaseDetails {
	return types.CaseDetails{
		Name:     name,
		Age:      27,
		Gender:   "female",
		Location: "last seen near the riverside market",
		Notes:    "wearing a green coat",
	}
}
