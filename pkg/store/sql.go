package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/praetorian-inc/regcache/pkg/types"
)

// dialect captures the differences between the SQL backends.
type dialect struct {
	name         string
	dollarParams bool // $1, $2... instead of ?
}

var (
	sqliteDialect   = dialect{name: "sqlite"}
	postgresDialect = dialect{name: "postgres", dollarParams: true}
)

// rebind rewrites ? placeholders for dialects that number their parameters.
func (d dialect) rebind(query string) string {
	if !d.dollarParams {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// timeLayout is used for every stored timestamp so both dialects sort the
// TEXT columns chronologically.
const timeLayout = time.RFC3339Nano

// SQLStore implements Store on top of database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

func newSQLStore(db *sql.DB, d dialect) (*SQLStore, error) {
	if err := CreateSchema(db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLStore{db: db, dialect: d}, nil
}

// Backend returns the dialect name ("sqlite" or "postgres").
func (s *SQLStore) Backend() string {
	return s.dialect.name
}

// RecordCompile stores a newly compiled handle.
func (s *SQLStore) RecordCompile(e types.Entry) error {
	_, err := s.db.Exec(s.dialect.rebind(`
		INSERT INTO handles (handle, pattern, syntax, groups_count, compiled_at, released_at)
		VALUES (?, ?, ?, ?, ?, NULL)
		ON CONFLICT (handle) DO UPDATE SET
			pattern = excluded.pattern,
			syntax = excluded.syntax,
			groups_count = excluded.groups_count,
			compiled_at = excluded.compiled_at,
			released_at = NULL
	`),
		int64(e.Handle),
		e.Pattern,
		e.Syntax,
		e.Groups,
		e.CompiledAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting handle %s: %w", e.Handle, err)
	}
	return nil
}

// RecordRelease marks a handle released.
func (s *SQLStore) RecordRelease(r types.Released) error {
	_, err := s.db.Exec(s.dialect.rebind(`
		UPDATE handles SET released_at = ?
		WHERE handle = ? AND released_at IS NULL
	`),
		r.ReleasedAt.UTC().Format(timeLayout),
		int64(r.Handle),
	)
	if err != nil {
		return fmt.Errorf("releasing handle %s: %w", r.Handle, err)
	}
	return nil
}

// Live returns entries not yet released, ordered by handle.
func (s *SQLStore) Live() ([]types.Entry, error) {
	records, err := s.query(`
		SELECT handle, pattern, syntax, groups_count, compiled_at, released_at
		FROM handles
		WHERE released_at IS NULL
		ORDER BY handle
	`)
	if err != nil {
		return nil, err
	}

	live := make([]types.Entry, 0, len(records))
	for _, rec := range records {
		live = append(live, rec.Entry)
	}
	return live, nil
}

// MaxHandle returns the largest handle ever recorded.
func (s *SQLStore) MaxHandle() (types.Handle, error) {
	var max int64
	err := s.db.QueryRow("SELECT COALESCE(MAX(handle), -1) FROM handles").Scan(&max)
	if err != nil {
		return types.InvalidHandle, fmt.Errorf("querying max handle: %w", err)
	}
	return types.Handle(max), nil
}

// Records returns the full journal, ordered by handle.
func (s *SQLStore) Records() ([]Record, error) {
	return s.query(`
		SELECT handle, pattern, syntax, groups_count, compiled_at, released_at
		FROM handles
		ORDER BY handle
	`)
}

func (s *SQLStore) query(q string) ([]Record, error) {
	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("querying handles: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var handle int64
		var compiledAt string
		var releasedAt sql.NullString

		err := rows.Scan(&handle, &rec.Pattern, &rec.Syntax, &rec.Groups, &compiledAt, &releasedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning handle: %w", err)
		}
		rec.Handle = types.Handle(handle)

		rec.CompiledAt, err = time.Parse(timeLayout, compiledAt)
		if err != nil {
			return nil, fmt.Errorf("parsing compiled_at for handle %d: %w", handle, err)
		}
		if releasedAt.Valid {
			at, err := time.Parse(timeLayout, releasedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parsing released_at for handle %d: %w", handle, err)
			}
			rec.ReleasedAt = &at
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating handles: %w", err)
	}

	return records, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
