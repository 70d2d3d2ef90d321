package library

import (
	"fmt"
	"strings"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/praetorian-inc/regcache/pkg/types"
)

// FilterConfig specifies include and exclude expressions over pattern IDs.
type FilterConfig struct {
	Include []string // only patterns whose ID matches one of these are kept
	Exclude []string // patterns whose ID matches one of these are dropped
}

// ParseList splits a comma-separated string into trimmed, non-empty items.
func ParseList(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Filter applies include and exclude expressions to patterns.
// Include is applied first, then exclude. Empty include means "include all".
// Expressions are compiled in auto syntax and match anywhere in the ID.
func Filter(patterns []*types.Pattern, config FilterConfig) ([]*types.Pattern, error) {
	if len(patterns) == 0 {
		return patterns, nil
	}

	include, err := compileAll(config.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileAll(config.Exclude)
	if err != nil {
		return nil, err
	}

	result := make([]*types.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if len(include) > 0 {
			ok, err := matchesAny(p.ID, include)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}

		drop, err := matchesAny(p.ID, exclude)
		if err != nil {
			return nil, err
		}
		if !drop {
			result = append(result, p)
		}
	}

	return result, nil
}

func compileAll(exprs []string) ([]engine.Matcher, error) {
	opts := engine.Options{Syntax: engine.SyntaxAuto}

	matchers := make([]engine.Matcher, 0, len(exprs))
	for _, expr := range exprs {
		m, err := engine.Compile(expr, opts)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression %q: %w", expr, err)
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

func matchesAny(id string, matchers []engine.Matcher) (bool, error) {
	for _, m := range matchers {
		found, err := contains(m, id)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}
