package migration_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

type note struct {
	ID    uint `gorm:"primaryKey"`
	Body  string
	Title string
}

type createNotes struct{}

func (createNotes) Up(db *gorm.DB) error {
	return db.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)").Error
}
func (createNotes) Down(db *gorm.DB) error { return db.Migrator().DropTable(&note{}) }

type addNoteTitle struct{}

func (addNoteTitle) Up(db *gorm.DB) error {
	return db.Exec("ALTER TABLE notes ADD COLUMN title TEXT").Error
}
func (addNoteTitle) Down(db *gorm.DB) error { return db.Migrator().DropColumn(&note{}, "title") }

type broken struct{}

func (broken) Up(db *gorm.DB) error {
	if err := db.Exec("CREATE TABLE half_done (id INTEGER)").Error; err != nil {
		return err
	}
	return errors.New("boom")
}
func (broken) Down(*gorm.DB) error { return nil }

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(database.Options{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func entries() []migration.Entry {
	// Deliberately out of order; the runner sorts by name.
	return []migration.Entry{
		{Name: "20250101000001_add_note_title", Migration: addNoteTitle{}},
		{Name: "20250101000000_create_notes", Migration: createNotes{}},
	}
}

func TestRunner_RunAndStatus(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := migration.New(db, migration.WithOutput(&out), migration.WithEntries(entries()...))

	require.NoError(t, r.Run())
	assert.True(t, db.Migrator().HasTable("notes"))
	assert.True(t, db.Migrator().HasColumn("notes", "title"))

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)

	out.Reset()
	require.NoError(t, r.Run())
	assert.Contains(t, out.String(), "Nothing to migrate.")

	out.Reset()
	require.NoError(t, r.Status())
	assert.Contains(t, out.String(), "20250101000000_create_notes")
	assert.NotContains(t, out.String(), "Pending")
}

func TestRunner_RollbackLastBatch(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer

	first := migration.New(db, migration.WithOutput(&out), migration.WithEntries(entries()[1]))
	require.NoError(t, first.Run())

	both := migration.New(db, migration.WithOutput(&out), migration.WithEntries(entries()...))
	require.NoError(t, both.Run())
	require.True(t, db.Migrator().HasColumn("notes", "title"))

	require.NoError(t, both.Rollback())
	assert.True(t, db.Migrator().HasTable("notes"), "earlier batch must survive")
	assert.False(t, db.Migrator().HasColumn("notes", "title"))

	pending, err := both.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "20250101000001_add_note_title", pending[0].Name)
}

func TestRunner_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openDB(t)
	r := migration.New(db,
		migration.WithOutput(&bytes.Buffer{}),
		migration.WithEntries(migration.Entry{Name: "20250101000000_broken", Migration: broken{}}),
	)

	err := r.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	pending, err := r.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestRunner_RollbackNothing(t *testing.T) {
	db := openDB(t)
	var out bytes.Buffer
	r := migration.New(db, migration.WithOutput(&out), migration.WithEntries())

	require.NoError(t, r.Rollback())
	assert.Contains(t, out.String(), "Nothing to roll back.")
}
