package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

const startKey = "metrics:start"

// Instrument registers gorm callbacks that time every statement into
// metrics.DBQueryDuration, labelled by operation.
func Instrument(db *gorm.DB) error {
	cb := db.Callback()

	hooks := []struct {
		operation string
		register  func(before, after func(*gorm.DB)) error
	}{
		{"insert", func(b, a func(*gorm.DB)) error {
			if err := cb.Create().Before("gorm:create").Register("metrics:before_create", b); err != nil {
				return err
			}
			return cb.Create().After("gorm:create").Register("metrics:after_create", a)
		}},
		{"select", func(b, a func(*gorm.DB)) error {
			if err := cb.Query().Before("gorm:query").Register("metrics:before_query", b); err != nil {
				return err
			}
			return cb.Query().After("gorm:query").Register("metrics:after_query", a)
		}},
		{"update", func(b, a func(*gorm.DB)) error {
			if err := cb.Update().Before("gorm:update").Register("metrics:before_update", b); err != nil {
				return err
			}
			return cb.Update().After("gorm:update").Register("metrics:after_update", a)
		}},
		{"delete", func(b, a func(*gorm.DB)) error {
			if err := cb.Delete().Before("gorm:delete").Register("metrics:before_delete", b); err != nil {
				return err
			}
			return cb.Delete().After("gorm:delete").Register("metrics:after_delete", a)
		}},
		{"select", func(b, a func(*gorm.DB)) error {
			if err := cb.Row().Before("gorm:row").Register("metrics:before_row", b); err != nil {
				return err
			}
			return cb.Row().After("gorm:row").Register("metrics:after_row", a)
		}},
		{"raw", func(b, a func(*gorm.DB)) error {
			if err := cb.Raw().Before("gorm:raw").Register("metrics:before_raw", b); err != nil {
				return err
			}
			return cb.Raw().After("gorm:raw").Register("metrics:after_raw", a)
		}},
	}

	for _, h := range hooks {
		if err := h.register(markStart, observe(h.operation)); err != nil {
			return err
		}
	}
	return nil
}

func markStart(db *gorm.DB) {
	db.InstanceSet(startKey, time.Now())
}

func observe(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startKey)
		if !ok {
			return
		}
		if start, ok := v.(time.Time); ok {
			metrics.ObserveDBQuery(operation, start)
		}
	}
}
