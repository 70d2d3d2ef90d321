//go:build !wasm

package store

import (
	"fmt"
	"strings"
)

// New creates a store for native builds.
// For ":memory:" paths, returns MemoryStore.
// For postgres URLs, returns a PostgreSQL-backed SQLStore.
// For file paths, returns a SQLite-backed SQLStore.
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	if cfg.Path == ":memory:" {
		return NewMemory(), nil
	}

	if IsPostgresURL(cfg.Path) {
		return NewPostgres(cfg.Path)
	}

	return NewSQLite(cfg.Path)
}

// IsPostgresURL reports whether path names a PostgreSQL database.
func IsPostgresURL(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}
