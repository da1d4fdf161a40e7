//go:build integration_test

package sqltest

import (
	"database/sql"
	"fmt"
	"hash/fnv"
	"testing"

	// Register the pgx driver under name "pgx".
	_ "github.com/jackc/pgx/v5/stdlib"

	// Register the SQLite driver under name "sqlite".
	_ "modernc.org/sqlite"

	"github.com/stretchr/testify/require"
)

// DBFactory returns an isolated database for one test.  Implementations
// register their own cleanup and fail the test when the database cannot be
// provisioned.
type DBFactory func(t testing.TB) *sql.DB

// DBTestFunc is a test body run once per history store backend.
type DBTestFunc func(t *testing.T, dbFactory DBFactory)

// RunDatabaseTest runs the same test body against both history store
// backends: Postgres (in a shared container) and SQLite (a file in a temp
// directory).  Each invocation gets a fresh database, so the subtests run
// in parallel.
func RunDatabaseTest(t *testing.T, testFunc DBTestFunc) {
	t.Helper()

	backends := []struct {
		name      string
		dbFactory DBFactory
	}{
		{name: "Postgres", dbFactory: NewPostgresDB},
		{name: "SQLite", dbFactory: NewSQLiteDB},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			t.Parallel()
			testFunc(t, backend.dbFactory)
		})
	}
}

// deterministicTestID derives a short stable identifier from the test
// name.  Database names built from it stay stable across runs, which keeps
// test caching intact, and stay short enough that no backend truncates
// them.
func deterministicTestID(t testing.TB) string {
	t.Helper()

	h := fnv.New32a()
	_, err := h.Write([]byte(t.Name()))
	require.NoError(t, err)

	return fmt.Sprintf("%08x", h.Sum32())
}
