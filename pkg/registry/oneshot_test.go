package registry

import (
	"testing"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch_OneShot(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    bool
	}{
		{"ssn", `^\d{3}-\d{2}-\d{4}$`, "123-45-6789", true},
		{"ssn mismatch", `^\d{3}-\d{2}-\d{4}$`, "123-456-789", false},
		{"email", `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`, "test@example.com", true},
		{"email mismatch", `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`, "invalid-email", false},
		{"empty", `^$`, "", true},
		{"case sensitive", `hello`, "HELLO", false},
		{"not anchored is still full", `start`, "start of the text", false},
		{"exact", `exact`, "exact", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.pattern, tt.text))
		})
	}
}

func TestMatch_InvalidPatternIsFalse(t *testing.T) {
	// Compile failures are indistinguishable from no match through Match
	assert.False(t, Match(`invalid[`, "text"))

	ok, err := MatchE(`invalid[`, "text")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrCompile)
}

func TestMatchWithOptions(t *testing.T) {
	ok, err := MatchWithOptions(`\d+`, "123", engine.Options{Syntax: engine.SyntaxRE2})
	require.NoError(t, err)
	assert.True(t, ok)
}
