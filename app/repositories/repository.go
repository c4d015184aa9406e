// Package repositories wraps gorm access for each aggregate. Every
// repository is built around an injected *gorm.DB, which may be the pool or
// a transaction, and narrows it with WithContext per call.
package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by primary key matches no row.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Scope narrows a query; services compose filters out of scopes.
type Scope = func(*gorm.DB) *gorm.DB
