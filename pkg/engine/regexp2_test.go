package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, pattern string) *Regexp2Matcher {
	t.Helper()
	m, err := Compile(pattern, DefaultOptions())
	require.NoError(t, err)
	return m
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`invalid[`, DefaultOptions())
	require.Error(t, err)

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, `invalid[`, ce.Pattern)
	assert.Equal(t, SyntaxECMAScript, ce.Syntax)
	assert.NotNil(t, errors.Unwrap(err))
	assert.Contains(t, err.Error(), "invalid[")
}

func TestCompile_NumGroups(t *testing.T) {
	tests := []struct {
		pattern string
		groups  int
	}{
		{`\d\d`, 0},
		{`(\d\d)`, 1},
		{`(\d)(\d)`, 2},
		{`(?:\d)(\d)`, 1},
		{`((a)(b))`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			m := mustCompile(t, tt.pattern)
			assert.Equal(t, tt.groups, m.NumGroups())
			assert.Equal(t, tt.pattern, m.Pattern())
		})
	}
}

func TestMatchFull(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    bool
	}{
		{"ssn", `^\d{3}-\d{2}-\d{4}$`, "123-45-6789", true},
		{"ssn wrong shape", `^\d{3}-\d{2}-\d{4}$`, "123-456-789", false},
		{"empty", `^$`, "", true},
		{"empty against text", `^$`, "not empty", false},
		{"prefix only", `start`, "start of the text", false},
		{"suffix only", `end`, "text ends with end", false},
		{"exact", `exact`, "exact", true},
		{"case sensitive", `hello`, "HELLO", false},
		{"alternation needs backtrack", `a|ab`, "ab", true},
		{"trailing newline", `abc`, "abc\n", false},
		{"unicode", `.{2}`, "日本", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustCompile(t, tt.pattern)
			got, err := m.MatchFull(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindAt(t *testing.T) {
	m := mustCompile(t, `(\d)(\d)`)
	text := []rune("12 34")

	first, err := m.FindAt(text, 0)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 2, first.End())
	assert.Equal(t, "12", first.Text)
	assert.Equal(t, []string{"1", "2"}, first.Groups)

	second, err := m.FindAt(text, first.End())
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, 3, second.Index)
	assert.Equal(t, "34", second.Text)

	none, err := m.FindAt(text, second.End())
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFindAt_AnchorSeesWholeText(t *testing.T) {
	m := mustCompile(t, `^a`)
	text := []rune("aaa")

	match, err := m.FindAt(text, 1)
	require.NoError(t, err)
	assert.Nil(t, match, "^ must not match at a cursor past the start")
}

func TestFindAt_RuneOffsets(t *testing.T) {
	m := mustCompile(t, `b`)
	text := []rune("ééb")

	match, err := m.FindAt(text, 0)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, 2, match.Index)
	assert.Equal(t, 1, match.Length)
}

func TestFindAt_UnparticipatingGroup(t *testing.T) {
	m := mustCompile(t, `(a)|(b)`)

	match, err := m.FindAt([]rune("b"), 0)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, []string{"", "b"}, match.Groups)
}

func TestFindAt_CursorOutOfRange(t *testing.T) {
	m := mustCompile(t, `a`)
	_, err := m.FindAt([]rune("a"), 5)
	assert.Error(t, err)
	_, err = m.FindAt([]rune("a"), -1)
	assert.Error(t, err)
}

func TestReplace(t *testing.T) {
	m := mustCompile(t, `a`)
	out, err := m.Replace("aaa", "b")
	require.NoError(t, err)
	assert.Equal(t, "bbb", out)

	out, err = m.Replace("xyz", "b")
	require.NoError(t, err)
	assert.Equal(t, "xyz", out)
}

func TestReplace_GroupReference(t *testing.T) {
	m := mustCompile(t, `(\w+)@(\w+)`)
	out, err := m.Replace("user@host", "$2 at $1")
	require.NoError(t, err)
	assert.Equal(t, "host at user", out)
}

func TestCompile_AutoFallsBackToPerl(t *testing.T) {
	// Lookbehind is rejected by RE2 mode but accepted by the native grammar
	m, err := Compile(`(?<=x)y`, Options{Syntax: SyntaxAuto})
	if err != nil {
		t.Skipf("engine rejected lookbehind in both modes: %v", err)
	}
	assert.Contains(t, []Syntax{SyntaxRE2, SyntaxPerl}, m.Syntax())

	ok, err := m.MatchFull("y")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompile_SyntaxRecorded(t *testing.T) {
	m, err := Compile(`\d+`, Options{Syntax: SyntaxRE2})
	require.NoError(t, err)
	assert.Equal(t, SyntaxRE2, m.Syntax())

	m, err = Compile(`\d+`, Options{Syntax: SyntaxPerl})
	require.NoError(t, err)
	assert.Equal(t, SyntaxPerl, m.Syntax())
}

func TestCompile_UnsupportedSyntax(t *testing.T) {
	_, err := Compile(`a`, Options{Syntax: Syntax(42)})
	assert.Error(t, err)
}
