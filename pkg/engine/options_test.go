package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, SyntaxECMAScript, opts.Syntax)
	assert.Equal(t, time.Duration(0), opts.MatchTimeout)
}

func TestParseSyntax(t *testing.T) {
	tests := []struct {
		in   string
		want Syntax
	}{
		{"", SyntaxECMAScript},
		{"ecmascript", SyntaxECMAScript},
		{"RE2", SyntaxRE2},
		{"perl", SyntaxPerl},
		{" auto ", SyntaxAuto},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSyntax(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSyntax("posix")
	assert.Error(t, err)
}

func TestSyntax_String(t *testing.T) {
	assert.Equal(t, "ecmascript", SyntaxECMAScript.String())
	assert.Equal(t, "re2", SyntaxRE2.String())
	assert.Equal(t, "perl", SyntaxPerl.String())
	assert.Equal(t, "auto", SyntaxAuto.String())
	assert.Equal(t, "unknown", Syntax(99).String())
}

func TestParseSyntax_RoundTrip(t *testing.T) {
	for _, s := range []Syntax{SyntaxECMAScript, SyntaxRE2, SyntaxPerl, SyntaxAuto} {
		got, err := ParseSyntax(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}
