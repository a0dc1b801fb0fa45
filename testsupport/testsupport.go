// Package testsupport holds helpers shared by package tests.
package testsupport

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"visittrack/api/database"
)

// NewDB opens a migrated SQLite database in a per-test temp directory.
func NewDB(t *testing.T) *database.DBClient {
	t.Helper()

	client, err := database.Open(context.Background(), filepath.Join(t.TempDir(), "visits.db"))
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

// CountRows returns the number of rows in table.
func CountRows(t *testing.T, client *database.DBClient, table string) int {
	t.Helper()

	var n int
	require.NoError(t, client.DB.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// SetDuration overwrites the duration of one visit row.
func SetDuration(t *testing.T, client *database.DBClient, id int64, seconds int) {
	t.Helper()

	_, err := client.DB.Exec("UPDATE visits SET duration = ? WHERE id = ?", seconds, id)
	require.NoError(t, err)
}
