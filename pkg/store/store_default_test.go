//go:build !wasm

package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_MemoryPath(t *testing.T) {
	s, err := New(Config{Path: ":memory:"})
	require.NoError(t, err)
	require.NotNil(t, s)
	defer s.Close()

	_, ok := s.(*MemoryStore)
	assert.True(t, ok, "expected MemoryStore for :memory:")
}

func TestNew_EmptyPath(t *testing.T) {
	_, err := New(Config{Path: ""})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}

func TestNew_FilePath(t *testing.T) {
	s, err := New(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	require.NotNil(t, s)
	defer s.Close()

	sqlStore, ok := s.(*SQLStore)
	require.True(t, ok, "expected SQLStore for file path")
	assert.Equal(t, "sqlite", sqlStore.Backend())
}

func TestIsPostgresURL(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"postgres://user@localhost/db", true},
		{"postgresql://localhost:5432/db?sslmode=disable", true},
		{"journal.db", false},
		{":memory:", false},
		{"/tmp/postgres://x", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPostgresURL(tt.path))
		})
	}
}

func TestDialect_Rebind(t *testing.T) {
	q := "UPDATE handles SET released_at = ? WHERE handle = ?"
	assert.Equal(t, q, sqliteDialect.rebind(q))
	assert.Equal(t, "UPDATE handles SET released_at = $1 WHERE handle = $2", postgresDialect.rebind(q))
}
