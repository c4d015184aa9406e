// Package migration provides the versioned schema runner for the storefront.
//
// Migrations register themselves from database/migrations:
//
//	func init() {
//	    migration.Register("20250101000000_create_categories_table", &CreateCategoriesTable{})
//	}
//
// and are applied from the CLI:
//
//	storefront migrate             // run all pending
//	storefront migrate:rollback    // roll back the last batch
//	storefront migrate:status      // list ran / pending
package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Migration is implemented by every schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// migrationRecord is the row stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

// Entry pairs a migration with its timestamp-prefixed name.
type Entry struct {
	Name      string
	Migration Migration
}

var registry []Entry

// Register adds a migration to the global registry. Names sort
// lexicographically, so prefix them with a UTC timestamp.
func Register(name string, m Migration) {
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Registered returns the names of all registered migrations in run order.
func Registered() []string {
	names := make([]string, 0, len(registry))
	for _, e := range sorted(registry) {
		names = append(names, e.Name)
	}
	return names
}

// ErrNotRegistered is returned by Rollback when the tracking table names a
// migration the binary no longer knows about.
var ErrNotRegistered = errors.New("migration not registered")

// Runner executes and tracks migrations.
type Runner struct {
	db      *gorm.DB
	out     io.Writer
	entries []Entry
}

// Option configures a Runner.
type Option func(*Runner)

// WithOutput redirects the human-readable progress lines (default stdout).
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.out = w }
}

// WithEntries replaces the global registry for this runner.
func WithEntries(entries ...Entry) Option {
	return func(r *Runner) { r.entries = entries }
}

// New creates a Runner backed by db.
func New(db *gorm.DB, opts ...Option) *Runner {
	r := &Runner{db: db, out: os.Stdout, entries: registry}
	for _, o := range opts {
		o(r)
	}
	r.entries = sorted(r.entries)
	return r
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

// Pending returns the migrations that have not been run yet, in name order.
func (r *Runner) Pending() ([]Entry, error) {
	ran, err := r.ranSet()
	if err != nil {
		return nil, err
	}

	var pending []Entry
	for _, e := range r.entries {
		if _, ok := ran[e.Name]; !ok {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

// Run applies all pending migrations as one batch. Each migration and its
// tracking row are committed together.
func (r *Runner) Run() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.Pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}

	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.nextBatch()
	if err != nil {
		return fmt.Errorf("migration: next batch: %w", err)
	}

	for _, e := range pending {
		logger.Info("migration: running", "name", e.Name)
		fmt.Fprintf(r.out, "  Migrating: %s\n", e.Name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.Migration.Up(tx); err != nil {
				return fmt.Errorf("up: %w", err)
			}
			return tx.Create(&migrationRecord{Name: e.Name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s: %w", e.Name, err)
		}

		fmt.Fprintf(r.out, "  Migrated:  %s\n", e.Name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	last, err := r.lastBatch()
	if err != nil {
		return fmt.Errorf("migration: last batch: %w", err)
	}
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	known := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		known[e.Name] = e.Migration
	}

	for _, rec := range records {
		m, ok := known[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: %w", rec.Name, ErrNotRegistered)
		}

		fmt.Fprintf(r.out, "  Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return fmt.Errorf("down: %w", err)
			}
			return tx.Delete(&migrationRecord{}, rec.ID).Error
		})
		if err != nil {
			return fmt.Errorf("migration: %s: %w", rec.Name, err)
		}

		fmt.Fprintf(r.out, "  Rolled back:  %s\n", rec.Name)
	}
	return nil
}

// Status prints every known migration and whether it has run.
func (r *Runner) Status() error {
	if err := r.EnsureTable(); err != nil {
		return err
	}

	ran, err := r.ranSet()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, e := range r.entries {
		if rec, ok := ran[e.Name]; ok {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", e.Name, "Ran", rec.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", e.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) ranSet() (map[string]migrationRecord, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	set := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		set[rec.Name] = rec
	}
	return set, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max struct{ Max int }
	err := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&max).Error
	return max.Max, err
}

func (r *Runner) nextBatch() (int, error) {
	last, err := r.lastBatch()
	return last + 1, err
}

func sorted(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
