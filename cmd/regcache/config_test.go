package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regcache.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadSettings_Defaults(t *testing.T) {
	resetFlags(t)
	flagColor = ""

	s, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultOptions(), s.engine)
	assert.Equal(t, "auto", s.color)
	assert.Empty(t, s.journal)
}

func TestLoadSettings_ConfigFile(t *testing.T) {
	resetFlags(t)
	flagColor = ""
	configPath = writeConfig(t, `
syntax: re2
match_timeout: 250ms
journal: handles.db
patterns: [a.yml, b]
builtin_patterns: true
color: always
`)

	s, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, engine.SyntaxRE2, s.engine.Syntax)
	assert.Equal(t, 250*time.Millisecond, s.engine.MatchTimeout)
	assert.Equal(t, "handles.db", s.journal)
	assert.Equal(t, []string{"a.yml", "b"}, s.patterns)
	assert.True(t, s.builtin)
	assert.Equal(t, "always", s.color)
}

func TestLoadSettings_FlagsOverrideFile(t *testing.T) {
	resetFlags(t)
	configPath = writeConfig(t, "syntax: re2\nmatch_timeout: 1s\ncolor: always\n")
	flagSyntax = "perl"
	flagTimeout = "2s"
	flagColor = "never"

	s, err := loadSettings()
	require.NoError(t, err)
	assert.Equal(t, engine.SyntaxPerl, s.engine.Syntax)
	assert.Equal(t, 2*time.Second, s.engine.MatchTimeout)
	assert.Equal(t, "never", s.color)
}

func TestLoadSettings_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
		want  string
	}{
		{"missing config", func(t *testing.T) { configPath = filepath.Join(t.TempDir(), "nope.yml") }, "failed to read config"},
		{"bad yaml", func(t *testing.T) { configPath = writeConfig(t, "syntax: [") }, "failed to parse config"},
		{"bad timeout", func(t *testing.T) { flagTimeout = "soon" }, "invalid match timeout"},
		{"negative timeout", func(t *testing.T) { flagTimeout = "-1s" }, "must not be negative"},
		{"bad color", func(t *testing.T) { flagColor = "rainbow" }, "invalid color mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			tt.setup(t)

			_, err := loadSettings()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
