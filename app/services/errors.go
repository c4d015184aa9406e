package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/storefront/app/repositories"
)

var (
	ErrNotFound          = repositories.ErrNotFound
	ErrInvalidID         = errors.New("invalid id")
	ErrCustomerRequired  = errors.New("customer is required")
	ErrLineCountMismatch = errors.New("product and quantity lists differ in length")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidOrderID    = errors.New("invalid order id")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
)

// ValidationError carries per-field messages for a rejected form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// fieldErrors collects messages and converts to *ValidationError.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ParseID parses a positive integer path id.
func ParseID(raw string) (uint, error) {
	id, ok := positiveInt(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return uint(id), nil
}

// positiveInt parses a trimmed base-10 integer greater than zero.
func positiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
