// Package migrations contains the storefront schema history. Each file
// registers its migrations from init(); importing this package (blank
// import in cmd/storefront and internal/server) makes them visible to the
// runner.
//
// Migrations use frozen snapshot structs rather than app/models so that a
// later model change never rewrites history.
package migrations
