package engine

import (
	"fmt"
	"strings"
	"time"
)

// Syntax selects the grammar a pattern is parsed with.
type Syntax int

const (
	// SyntaxECMAScript parses patterns with ECMAScript rules (\d is ASCII only,
	// no inline modifiers beyond ECMAScript's). This is the default.
	SyntaxECMAScript Syntax = iota
	// SyntaxRE2 parses patterns with RE2 compatibility rules.
	SyntaxRE2
	// SyntaxPerl parses patterns with the engine's native Perl/.NET grammar.
	SyntaxPerl
	// SyntaxAuto tries RE2 first and falls back to Perl when RE2 rejects the pattern.
	SyntaxAuto
)

// String returns the string representation of Syntax
func (s Syntax) String() string {
	switch s {
	case SyntaxECMAScript:
		return "ecmascript"
	case SyntaxRE2:
		return "re2"
	case SyntaxPerl:
		return "perl"
	case SyntaxAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// ParseSyntax converts a name such as "re2" into a Syntax.
// The empty string selects the default syntax.
func ParseSyntax(name string) (Syntax, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ecmascript", "ecma", "js":
		return SyntaxECMAScript, nil
	case "re2":
		return SyntaxRE2, nil
	case "perl", "pcre", "dotnet":
		return SyntaxPerl, nil
	case "auto":
		return SyntaxAuto, nil
	default:
		return SyntaxECMAScript, fmt.Errorf("unknown syntax %q (want ecmascript, re2, perl or auto)", name)
	}
}

// Options contains configuration for pattern compilation
type Options struct {
	// Syntax is the grammar patterns are parsed with.
	Syntax Syntax

	// MatchTimeout bounds a single match attempt.
	// Zero disables the timeout; backtracking then runs to completion.
	MatchTimeout time.Duration
}

// DefaultOptions returns the default options for compilation
func DefaultOptions() Options {
	return Options{
		Syntax:       SyntaxECMAScript,
		MatchTimeout: 0,
	}
}
