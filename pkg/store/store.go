package store

import (
	"time"

	"github.com/praetorian-inc/regcache/pkg/types"
)

// Store persists the compile/release journal of a registry.
// This interface abstracts the underlying storage implementation,
// allowing for different backends (memory, SQLite, PostgreSQL).
type Store interface {
	// RecordCompile stores a newly compiled handle.
	RecordCompile(e types.Entry) error

	// RecordRelease marks a handle released. Unknown handles are ignored.
	RecordRelease(r types.Released) error

	// Live returns entries not yet released, ordered by handle.
	Live() ([]types.Entry, error)

	// MaxHandle returns the largest handle ever recorded, released or not.
	// Returns InvalidHandle for an empty journal.
	MaxHandle() (types.Handle, error)

	// Records returns the full journal, ordered by handle.
	Records() ([]Record, error)

	// Close closes the database connection.
	Close() error
}

// Record is one journaled handle with its release time, if any.
type Record struct {
	types.Entry
	ReleasedAt *time.Time `json:"released_at,omitempty"`
}

// Released reports whether the handle has been released.
func (r Record) Released() bool {
	return r.ReleasedAt != nil
}

// Config for store initialization.
type Config struct {
	// Path selects the backend:
	//   - ":memory:" keeps the journal in process memory
	//   - "postgres://..." or "postgresql://..." connects to PostgreSQL
	//   - anything else is a SQLite database file
	Path string
}
