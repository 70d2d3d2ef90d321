package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// CreateSchema creates the journal schema if it doesn't exist.
// The DDL is shared by SQLite and PostgreSQL.
func CreateSchema(db *sql.DB, d dialect) error {
	if err := createSchemaVersionTable(db, d); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createHandlesTable(db); err != nil {
		return fmt.Errorf("creating handles table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB, d dialect) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Insert version if table is empty
	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count)
	if err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec(d.rebind("INSERT INTO schema_version (version) VALUES (?)"), SchemaVersion)
		return err
	}

	var version int
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("journal schema version %d is newer than supported version %d", version, SchemaVersion)
	}

	return nil
}

func createHandlesTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS handles (
			handle BIGINT PRIMARY KEY NOT NULL,
			pattern TEXT NOT NULL,
			syntax TEXT NOT NULL,
			groups_count INTEGER NOT NULL,
			compiled_at TEXT NOT NULL,
			released_at TEXT
		)
	`)
	if err != nil {
		return err
	}

	// Restores read live handles only
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_handles_released_at ON handles(released_at)
	`)
	return err
}
