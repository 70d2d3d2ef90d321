package engine

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Regexp2Matcher implements Matcher using regexp2.
//
// regexp2 is a backtracking engine, so it supports backreferences and
// lookaround and can take exponential time on pathological inputs. Set
// Options.MatchTimeout to bound a single attempt.
//
// A Regexp2Matcher is read-only after Compile returns and is safe for
// concurrent use.
type Regexp2Matcher struct {
	pattern string
	syntax  Syntax
	groups  int

	re *regexp2.Regexp

	// anchored is the pattern wrapped in start and end anchors, used for
	// full-match tests. Nil when the wrapped form does not compile (for
	// example a trailing (?x) comment swallowing the closing group); MatchFull
	// then verifies the span of an unanchored match instead.
	anchored *regexp2.Regexp
}

// Compile compiles pattern with the given options.
// The returned error is a *CompileError.
func Compile(pattern string, opts Options) (*Regexp2Matcher, error) {
	re, syntax, err := compileRegexp2(pattern, opts.Syntax)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Syntax: opts.Syntax, Err: err}
	}

	anchored, _, err := compileRegexp2(anchor(pattern, syntax), syntax)
	if err != nil {
		anchored = nil
	}

	// Set timeout to prevent catastrophic backtracking
	if opts.MatchTimeout > 0 {
		re.MatchTimeout = opts.MatchTimeout
		if anchored != nil {
			anchored.MatchTimeout = opts.MatchTimeout
		}
	}

	return &Regexp2Matcher{
		pattern:  pattern,
		syntax:   syntax,
		groups:   len(re.GetGroupNumbers()) - 1,
		re:       re,
		anchored: anchored,
	}, nil
}

// compileRegexp2 maps a Syntax onto regexp2 options and returns the syntax
// the pattern was actually accepted under.
func compileRegexp2(pattern string, syntax Syntax) (*regexp2.Regexp, Syntax, error) {
	switch syntax {
	case SyntaxECMAScript:
		re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
		return re, SyntaxECMAScript, err
	case SyntaxRE2:
		re, err := regexp2.Compile(pattern, regexp2.RE2)
		return re, SyntaxRE2, err
	case SyntaxPerl:
		re, err := regexp2.Compile(pattern, regexp2.None)
		return re, SyntaxPerl, err
	case SyntaxAuto:
		// Try RE2 mode first, fall back to Perl for constructs RE2 rejects
		re, err := regexp2.Compile(pattern, regexp2.RE2)
		if err == nil {
			return re, SyntaxRE2, nil
		}
		re, err = regexp2.Compile(pattern, regexp2.None)
		return re, SyntaxPerl, err
	default:
		return nil, syntax, fmt.Errorf("unsupported syntax %d", int(syntax))
	}
}

// anchor wraps pattern so it can only match the whole subject.
// ECMAScript has no \A or \z, so it uses ^ and $ and relies on the span
// check in MatchFull to reject a match ending before a final newline.
func anchor(pattern string, syntax Syntax) string {
	if syntax == SyntaxECMAScript {
		return "^(?:" + pattern + ")$"
	}
	return `\A(?:` + pattern + `)\z`
}

// Pattern returns the source the matcher was compiled from.
func (m *Regexp2Matcher) Pattern() string {
	return m.pattern
}

// Syntax returns the grammar the pattern was accepted under.
// For SyntaxAuto this is the grammar the fallback settled on.
func (m *Regexp2Matcher) Syntax() Syntax {
	return m.syntax
}

// NumGroups returns the number of capture groups declared in the pattern.
func (m *Regexp2Matcher) NumGroups() int {
	return m.groups
}

// MatchFull reports whether the whole of text matches the pattern.
func (m *Regexp2Matcher) MatchFull(text string) (bool, error) {
	re := m.anchored
	if re == nil {
		re = m.re
	}

	runes := []rune(text)
	match, err := re.FindRunesMatchStartingAt(runes, 0)
	if err != nil {
		return false, fmt.Errorf("full match: %w", err)
	}
	if match == nil {
		return false, nil
	}
	return match.Index == 0 && match.Length == len(runes), nil
}

// FindAt returns the leftmost match starting at or after cursor.
func (m *Regexp2Matcher) FindAt(text []rune, cursor int) (*Match, error) {
	if cursor < 0 || cursor > len(text) {
		return nil, fmt.Errorf("cursor %d out of range [0, %d]", cursor, len(text))
	}

	match, err := m.re.FindRunesMatchStartingAt(text, cursor)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	if match == nil {
		return nil, nil
	}

	return &Match{
		Index:  match.Index,
		Length: match.Length,
		Text:   match.String(),
		Groups: extractCaptureGroups(match, m.groups),
	}, nil
}

// Replace substitutes every match in text with the replacement template.
// Templates use the engine's syntax: $1, ${1}, $0 and $$.
func (m *Regexp2Matcher) Replace(text, replacement string) (string, error) {
	out, err := m.re.Replace(text, replacement, -1, -1)
	if err != nil {
		return "", fmt.Errorf("replace: %w", err)
	}
	return out, nil
}

// extractCaptureGroups extracts positional capture groups 1..n from a
// regexp2 match. A group that did not participate yields "".
// A repeated group yields its last iteration.
func extractCaptureGroups(match *regexp2.Match, n int) []string {
	if n == 0 {
		return nil
	}
	groups := make([]string, n)
	matchGroups := match.Groups()
	for i := 1; i < len(matchGroups) && i <= n; i++ {
		group := matchGroups[i]
		if len(group.Captures) > 0 {
			groups[i-1] = group.String()
		}
	}
	return groups
}
