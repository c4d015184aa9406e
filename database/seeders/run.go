// Package seeders loads reference data into a migrated database.
//
// Seeders register from init() and run in registration order:
//
//	func init() {
//	    seeders.Register("categories", SeedCategories)
//	}
//
// Run them with `storefront seed`. Every seeder is insert-or-ignore, so
// running twice leaves existing rows untouched.
package seeders

import (
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// SeederFunc loads one data set from dir.
type SeederFunc func(db *gorm.DB, dir string) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder against dir, writing progress to
// w. It stops on the first error.
func RunAll(db *gorm.DB, dir string, w io.Writer) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(w, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(w, "  Running seeder: %s ... ", e.name)
		if err := e.fn(db, dir); err != nil {
			fmt.Fprintln(w, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(w, "done")
		logger.Info("seeder: done", "name", e.name, "dir", dir)
	}
	return nil
}
