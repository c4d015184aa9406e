// Package testdb opens migrated in-memory sqlite databases for tests.
package testdb

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	// register schema migrations
	_ "github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

// Open returns a fresh :memory: database with every migration applied.
// The pool is pinned to one connection because each sqlite :memory:
// connection is its own database.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.Options{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, migration.New(db, migration.WithOutput(io.Discard)).Run())
	return db
}
