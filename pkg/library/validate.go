package library

import (
	"errors"
	"fmt"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/praetorian-inc/regcache/pkg/types"
)

// Validate checks pattern consistency and required fields, compiles the
// pattern with opts, and runs it against its examples: every example must
// contain a match and no negative example may.
func Validate(p *types.Pattern, opts engine.Options) error {
	if p == nil {
		return fmt.Errorf("pattern is nil")
	}

	// Check required fields
	if p.ID == "" {
		return fmt.Errorf("pattern ID is required")
	}
	if p.Name == "" {
		return fmt.Errorf("pattern %s: name is required", p.ID)
	}
	if p.Pattern == "" {
		return fmt.Errorf("pattern %s: pattern is required", p.ID)
	}

	// Validate StructuralID matches computed value
	expectedID := p.ComputeStructuralID()
	if p.StructuralID != "" && p.StructuralID != expectedID {
		return fmt.Errorf("pattern %s has inconsistent StructuralID: got %s, expected %s",
			p.ID, p.StructuralID, expectedID)
	}

	m, err := engine.Compile(p.Pattern, opts)
	if err != nil {
		return fmt.Errorf("pattern %s: %w", p.ID, err)
	}

	for _, example := range p.Examples {
		found, err := contains(m, example)
		if err != nil {
			return fmt.Errorf("pattern %s: example %q: %w", p.ID, example, err)
		}
		if !found {
			return fmt.Errorf("pattern %s: example %q does not match", p.ID, example)
		}
	}

	for _, example := range p.NegativeExamples {
		found, err := contains(m, example)
		if err != nil {
			return fmt.Errorf("pattern %s: negative example %q: %w", p.ID, example, err)
		}
		if found {
			return fmt.Errorf("pattern %s: negative example %q matches", p.ID, example)
		}
	}

	return nil
}

// ValidateAll validates every pattern and checks IDs are unique.
// All failures are reported, joined.
func ValidateAll(patterns []*types.Pattern, opts engine.Options) error {
	var errs []error
	seen := make(map[string]bool, len(patterns))

	for _, p := range patterns {
		if err := Validate(p, opts); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("duplicate pattern ID: %s", p.ID))
			continue
		}
		seen[p.ID] = true
	}

	return errors.Join(errs...)
}

// contains reports whether m matches anywhere in text.
func contains(m engine.Matcher, text string) (bool, error) {
	match, err := m.FindAt([]rune(text), 0)
	if err != nil {
		return false, err
	}
	return match != nil, nil
}
