// Package engine adapts a regular expression library to the small set of
// operations a pattern registry needs: full match, leftmost search from a
// cursor, capture extraction and template substitution.
package engine

import "fmt"

// Matcher is a compiled, immutable pattern.
// Implementations must be safe for concurrent use by multiple goroutines.
type Matcher interface {
	// Pattern returns the source the matcher was compiled from.
	Pattern() string

	// Syntax returns the grammar the pattern was parsed with.
	Syntax() Syntax

	// NumGroups returns the number of capture groups declared in the pattern.
	NumGroups() int

	// MatchFull reports whether the whole of text matches the pattern.
	MatchFull(text string) (bool, error)

	// FindAt returns the leftmost match starting at or after cursor, or nil.
	// text is the complete subject so anchors and lookbehinds see the
	// characters before cursor. cursor and the returned offsets count runes.
	FindAt(text []rune, cursor int) (*Match, error)

	// Replace substitutes every match in text with the replacement template.
	Replace(text, replacement string) (string, error)
}

// Match is one located match.
type Match struct {
	Index  int      // rune offset of the first matched rune
	Length int      // match length in runes
	Text   string   // matched text
	Groups []string // groups 1..N; "" for a group that did not participate
}

// End returns the rune offset just past the match.
func (m *Match) End() int {
	return m.Index + m.Length
}

// CompileError reports a pattern the engine rejected.
type CompileError struct {
	Pattern string
	Syntax  Syntax
	Err     error
}

// Error implements error.
func (e *CompileError) Error() string {
	return fmt.Sprintf("invalid %s pattern %q: %v", e.Syntax, e.Pattern, e.Err)
}

// Unwrap returns the engine's parse error.
func (e *CompileError) Unwrap() error {
	return e.Err
}
