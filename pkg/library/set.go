package library

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/praetorian-inc/regcache/pkg/prefilter"
	"github.com/praetorian-inc/regcache/pkg/registry"
	"github.com/praetorian-inc/regcache/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Hit is the find-all result of one pattern over a scanned text.
type Hit struct {
	PatternID string       `json:"pattern_id"`
	Name      string       `json:"name"`
	Handle    types.Handle `json:"handle"`
	Values    []string     `json:"values"`
}

// Set is a pattern library compiled into a registry.
// Each pattern owns one handle for the lifetime of the Set.
type Set struct {
	reg      *registry.Registry
	patterns []*types.Pattern
	handles  []types.Handle
	byID     map[string]int
	pf       *prefilter.Prefilter
	logger   *slog.Logger
	workers  int

	closeOnce sync.Once
}

// SetOption configures a Set.
type SetOption func(*Set)

// WithSetLogger sets the logger used for scan diagnostics.
func WithSetLogger(l *slog.Logger) SetOption {
	return func(s *Set) {
		s.logger = l
	}
}

// WithWorkers bounds how many patterns Scan runs at once. Default is GOMAXPROCS.
func WithWorkers(n int) SetOption {
	return func(s *Set) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewSet compiles patterns into reg. On any failure the handles compiled so
// far are released and the error names the offending pattern.
func NewSet(reg *registry.Registry, patterns []*types.Pattern, opts ...SetOption) (*Set, error) {
	s := &Set{
		reg:      reg,
		patterns: patterns,
		handles:  make([]types.Handle, 0, len(patterns)),
		byID:     make(map[string]int, len(patterns)),
		logger:   slog.New(slog.DiscardHandler),
		workers:  runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}

	for i, p := range patterns {
		if _, dup := s.byID[p.ID]; dup {
			s.Close()
			return nil, fmt.Errorf("duplicate pattern ID: %s", p.ID)
		}

		h, err := reg.Compile(p.Pattern)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("pattern %s: %w", p.ID, err)
		}
		s.handles = append(s.handles, h)
		s.byID[p.ID] = i
	}

	s.pf = prefilter.New(patterns)
	s.logger.Debug("pattern set compiled", "patterns", len(patterns), "keywords", s.pf.Len())
	return s, nil
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int {
	return len(s.patterns)
}

// Patterns returns the patterns in load order.
func (s *Set) Patterns() []*types.Pattern {
	return s.patterns
}

// Handle returns the registry handle compiled for a pattern ID.
func (s *Set) Handle(id string) (types.Handle, bool) {
	i, ok := s.byID[id]
	if !ok {
		return types.InvalidHandle, false
	}
	return s.handles[i], true
}

// Scan runs FindAll for every pattern whose keywords occur in text and
// returns one Hit per pattern with at least one match, in load order.
// Candidate patterns run concurrently, at most workers at a time.
func (s *Set) Scan(text string) ([]Hit, error) {
	candidates := s.pf.Filter(text)
	s.logger.Debug("prefilter", "candidates", len(candidates), "patterns", len(s.patterns))

	results := make([][]string, len(candidates))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, p := range candidates {
		h := s.handles[s.byID[p.ID]]
		g.Go(func() error {
			values, err := s.reg.FindAll(h, text)
			if err != nil {
				if errors.Is(err, registry.ErrUnknownHandle) {
					return fmt.Errorf("pattern %s: set is closed: %w", p.ID, err)
				}
				return fmt.Errorf("pattern %s: %w", p.ID, err)
			}
			results[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hits := make([]Hit, 0)
	for i, p := range candidates {
		if len(results[i]) == 0 {
			continue
		}
		hits = append(hits, Hit{
			PatternID: p.ID,
			Name:      p.Name,
			Handle:    s.handles[s.byID[p.ID]],
			Values:    results[i],
		})
	}
	return hits, nil
}

// Close releases every handle owned by the set. Safe to call more than once.
func (s *Set) Close() {
	s.closeOnce.Do(func() {
		for _, h := range s.handles {
			s.reg.Release(h)
		}
	})
}
