// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/padraicbc/drivetrainer/db"
)

var seq atomic.Int64

// New returns a fresh SQLite in-memory database with every migration applied
// and foreign keys enforced. It is closed when the test ends.
func New(t testing.TB) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=1", name, seq.Add(1))

	sqldb, err := sql.Open("sqlite3", dsn)
	require.NoError(t, err)
	// One connection keeps the shared in-memory database alive and serialises writers.
	sqldb.SetMaxOpenConns(1)

	bdb := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = bdb.Close() })

	require.NoError(t, db.Migrate(context.Background(), bdb))
	return bdb
}
