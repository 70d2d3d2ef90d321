package registry

import (
	"fmt"
	"strings"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/praetorian-inc/regcache/pkg/types"
)

// MatchCompiled reports whether the whole of text matches the pattern behind h.
// An unknown handle reports false; use MatchCompiledE to tell the cases apart.
func (r *Registry) MatchCompiled(h types.Handle, text string) bool {
	ok, _ := r.MatchCompiledE(h, text)
	return ok
}

// MatchCompiledE is MatchCompiled with the error channel exposed.
func (r *Registry) MatchCompiledE(h types.Handle, text string) (bool, error) {
	m, err := r.lookup(h)
	if err != nil {
		return false, err
	}
	return m.MatchFull(text)
}

// Search returns the leftmost match of the pattern behind h in text.
// found is false when the pattern does not occur; err wraps ErrUnknownHandle
// when h is not live.
func (r *Registry) Search(h types.Handle, text string) (match string, found bool, err error) {
	m, err := r.lookup(h)
	if err != nil {
		return "", false, err
	}

	loc, err := m.FindAt([]rune(text), 0)
	if err != nil {
		return "", false, err
	}
	if loc == nil {
		return "", false, nil
	}
	return loc.Text, true, nil
}

// FindAll returns every match of the pattern behind h in text, scanning left
// to right. The shape of each element depends on the number of capture groups
// the pattern declares:
//
//   - 0 groups: the matched text
//   - 1 group: the text captured by group 1
//   - 2 or more groups: groups 1..N joined by types.GroupDelimiter
//
// A pattern that does not occur yields an empty, non-nil slice.
func (r *Registry) FindAll(h types.Handle, text string) ([]string, error) {
	m, err := r.lookup(h)
	if err != nil {
		return nil, err
	}
	return FindAll(m, text)
}

// FindAll runs the find-all scan against a matcher that is not registered.
func FindAll(m engine.Matcher, text string) ([]string, error) {
	runes := []rune(text)
	groups := m.NumGroups()
	results := make([]string, 0)

	cursor := 0
	for cursor <= len(runes) {
		match, err := m.FindAt(runes, cursor)
		if err != nil {
			return nil, fmt.Errorf("find all: %w", err)
		}
		if match == nil {
			break
		}

		results = append(results, flatten(match, groups))

		next := match.End()
		if match.Length == 0 {
			// Step past an empty match instead of finding it again
			if next >= len(runes) {
				break
			}
			next++
		}
		cursor = next
	}

	return results, nil
}

// flatten applies the group-arity policy to one match.
func flatten(match *engine.Match, groups int) string {
	switch groups {
	case 0:
		return match.Text
	case 1:
		return match.Groups[0]
	default:
		return strings.Join(match.Groups, types.GroupDelimiter)
	}
}

// Substitute replaces every match of the pattern behind h in text with
// replacement. Group references in replacement are interpreted by the engine.
// Text without matches is returned unchanged.
func (r *Registry) Substitute(h types.Handle, text, replacement string) (string, error) {
	m, err := r.lookup(h)
	if err != nil {
		return "", err
	}
	return m.Replace(text, replacement)
}
