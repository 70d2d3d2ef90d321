package registry

import (
	"fmt"

	"github.com/praetorian-inc/regcache/pkg/engine"
)

// Match compiles pattern, tests whether the whole of text matches it and
// discards the compiled form. A pattern that fails to compile reports false,
// the same as a pattern that does not match; MatchE tells the two apart.
func Match(pattern, text string) bool {
	ok, _ := MatchE(pattern, text)
	return ok
}

// MatchE is Match with the compile error exposed.
func MatchE(pattern, text string) (bool, error) {
	return MatchWithOptions(pattern, text, engine.DefaultOptions())
}

// MatchWithOptions is MatchE with explicit engine options.
func MatchWithOptions(pattern, text string, opts engine.Options) (bool, error) {
	m, err := engine.Compile(pattern, opts)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	return m.MatchFull(text)
}
