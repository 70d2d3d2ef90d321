// Package regcache provides a compiled-pattern cache behind a flat,
// handle-based API.
//
// A caller compiles a pattern once, receives an integer handle, and reuses
// the handle for full matches, searches, find-all extraction and
// substitution without re-parsing the pattern. Handles are never reused.
//
// # Basic Usage
//
//	cache, err := regcache.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer cache.Close()
//
//	h, err := cache.Compile(`(\d{3})-(\d{4})`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	values, err := cache.FindAll(h, "call 555-1234 or 555-9876")
//	// values: ["555\x011234", "555\x019876"]
//
// # One-Shot Matching
//
// Match compiles, tests and discards in one call:
//
//	if regcache.Match(`[a-z]+`, "hello") {
//	    ...
//	}
//
// # Journals
//
// With WithJournal, compiles and releases are recorded in a SQLite file or
// PostgreSQL database, and a new Cache over the same journal restores the
// live handles under their original values:
//
//	cache, err := regcache.New(regcache.WithJournal("handles.db"))
package regcache

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/praetorian-inc/regcache/pkg/library"
	"github.com/praetorian-inc/regcache/pkg/registry"
	"github.com/praetorian-inc/regcache/pkg/store"
	"github.com/praetorian-inc/regcache/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/regcache" without subpackages.
type (
	// Handle identifies a compiled pattern.
	Handle = types.Handle

	// Entry describes a live handle.
	Entry = types.Entry

	// Pattern is a named library pattern.
	Pattern = types.Pattern

	// Hit is one pattern's find-all result from Scan.
	Hit = library.Hit

	// Stats counts cache activity.
	Stats = registry.Stats

	// Syntax selects the pattern grammar.
	Syntax = engine.Syntax
)

// Re-export constants.
const (
	InvalidHandle  = types.InvalidHandle
	GroupDelimiter = types.GroupDelimiter

	SyntaxECMAScript = engine.SyntaxECMAScript
	SyntaxRE2        = engine.SyntaxRE2
	SyntaxPerl       = engine.SyntaxPerl
	SyntaxAuto       = engine.SyntaxAuto
)

// Re-export errors.
var (
	ErrCompile          = registry.ErrCompile
	ErrUnknownHandle    = registry.ErrUnknownHandle
	ErrHandlesExhausted = registry.ErrHandlesExhausted
)

// ErrNoPatterns is returned by Scan when the cache has no pattern library.
var ErrNoPatterns = errors.New("no pattern library loaded")

// Match reports whether the whole of text matches pattern. A pattern that
// does not compile reports false.
func Match(pattern, text string) bool {
	return registry.Match(pattern, text)
}

// MatchE is Match with the compile error exposed.
func MatchE(pattern, text string) (bool, error) {
	return registry.MatchE(pattern, text)
}

// Cache is a pattern registry with an optional journal and pattern library.
type Cache struct {
	reg     *registry.Registry
	journal store.Store
	set     *library.Set
	config  *cacheConfig
}

// cacheConfig holds cache configuration.
type cacheConfig struct {
	engine       engine.Options
	journalPath  string
	patterns     []*types.Pattern
	patternPaths []string
	builtin      bool
	logger       *slog.Logger
}

// Option configures a Cache.
type Option func(*cacheConfig)

// WithSyntax sets the grammar patterns are compiled with.
// Default is SyntaxECMAScript.
func WithSyntax(s Syntax) Option {
	return func(c *cacheConfig) {
		c.engine.Syntax = s
	}
}

// WithMatchTimeout bounds every match attempt. Default is no timeout.
func WithMatchTimeout(d time.Duration) Option {
	return func(c *cacheConfig) {
		c.engine.MatchTimeout = d
	}
}

// WithJournal records compiles and releases at path (a SQLite file,
// ":memory:", or a postgres:// URL) and restores live handles from it.
func WithJournal(path string) Option {
	return func(c *cacheConfig) {
		c.journalPath = path
	}
}

// WithPatterns adds library patterns available to Scan.
func WithPatterns(patterns []*Pattern) Option {
	return func(c *cacheConfig) {
		c.patterns = append(c.patterns, patterns...)
	}
}

// WithPatternFiles adds library patterns loaded from YAML files or directories.
func WithPatternFiles(paths ...string) Option {
	return func(c *cacheConfig) {
		c.patternPaths = append(c.patternPaths, paths...)
	}
}

// WithBuiltinPatterns adds the built-in pattern library.
func WithBuiltinPatterns() Option {
	return func(c *cacheConfig) {
		c.builtin = true
	}
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *cacheConfig) {
		c.logger = l
	}
}

// New creates a Cache with the given options.
//
// By default, the cache:
//   - Compiles patterns with ECMAScript syntax and no match timeout
//   - Keeps no journal
//   - Loads no pattern library (Scan returns ErrNoPatterns)
func New(opts ...Option) (*Cache, error) {
	config := &cacheConfig{
		engine: engine.DefaultOptions(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(config)
	}

	c := &Cache{config: config}

	regOpts := []registry.Option{
		registry.WithEngineOptions(config.engine),
		registry.WithLogger(config.logger),
	}
	if config.journalPath != "" {
		journal, err := store.New(store.Config{Path: config.journalPath})
		if err != nil {
			return nil, fmt.Errorf("opening journal: %w", err)
		}
		c.journal = journal
		regOpts = append(regOpts, registry.WithJournal(journal))
	}
	c.reg = registry.New(regOpts...)

	if c.journal != nil {
		restored, err := c.reg.RestoreFrom(c.journal)
		if err != nil {
			// Entries that fail to restore stay unknown; the rest are usable
			config.logger.Warn("journal restore incomplete", "restored", restored, "error", err)
		} else {
			config.logger.Debug("journal restored", "restored", restored)
		}
	}

	patterns, err := config.loadPatterns()
	if err != nil {
		c.Close()
		return nil, err
	}
	if len(patterns) > 0 {
		set, err := library.NewSet(c.reg, patterns, library.WithSetLogger(config.logger))
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("compiling pattern library: %w", err)
		}
		c.set = set
	}

	return c, nil
}

func (c *cacheConfig) loadPatterns() ([]*types.Pattern, error) {
	loader := library.NewLoader()

	var patterns []*types.Pattern
	if c.builtin {
		builtin, err := loader.LoadBuiltin()
		if err != nil {
			return nil, fmt.Errorf("loading builtin patterns: %w", err)
		}
		patterns = append(patterns, builtin...)
	}
	for _, path := range c.patternPaths {
		loaded, err := loader.LoadPath(path)
		if err != nil {
			return nil, fmt.Errorf("loading patterns: %w", err)
		}
		patterns = append(patterns, loaded...)
	}
	return append(patterns, c.patterns...), nil
}

// Compile compiles pattern and returns its handle.
func (c *Cache) Compile(pattern string) (Handle, error) {
	return c.reg.Compile(pattern)
}

// Release forgets a handle. Unknown handles are ignored.
func (c *Cache) Release(h Handle) {
	c.reg.Release(h)
}

// MatchCompiled reports whether the whole of text matches the pattern behind h.
// An unknown handle reports false.
func (c *Cache) MatchCompiled(h Handle, text string) bool {
	return c.reg.MatchCompiled(h, text)
}

// MatchCompiledE is MatchCompiled with the error channel exposed.
func (c *Cache) MatchCompiledE(h Handle, text string) (bool, error) {
	return c.reg.MatchCompiledE(h, text)
}

// Search returns the leftmost match of the pattern behind h.
func (c *Cache) Search(h Handle, text string) (string, bool, error) {
	return c.reg.Search(h, text)
}

// FindAll returns every match of the pattern behind h, flattened by group
// count (see registry.FindAll).
func (c *Cache) FindAll(h Handle, text string) ([]string, error) {
	return c.reg.FindAll(h, text)
}

// Substitute replaces every match of the pattern behind h.
func (c *Cache) Substitute(h Handle, text, replacement string) (string, error) {
	return c.reg.Substitute(h, text, replacement)
}

// Info describes a live handle.
func (c *Cache) Info(h Handle) (Entry, error) {
	return c.reg.Info(h)
}

// Handles describes every live handle, ordered by handle.
func (c *Cache) Handles() []Entry {
	return c.reg.Snapshot()
}

// Stats returns activity counters.
func (c *Cache) Stats() Stats {
	return c.reg.Stats()
}

// Scan runs the pattern library over text.
func (c *Cache) Scan(text string) ([]Hit, error) {
	if c.set == nil {
		return nil, ErrNoPatterns
	}
	return c.set.Scan(text)
}

// PatternHandle returns the handle compiled for a library pattern ID.
func (c *Cache) PatternHandle(id string) (Handle, bool) {
	if c.set == nil {
		return InvalidHandle, false
	}
	return c.set.Handle(id)
}

// Registry returns the underlying registry.
func (c *Cache) Registry() *registry.Registry {
	return c.reg
}

// PatternSet returns the compiled pattern library, or nil.
func (c *Cache) PatternSet() *library.Set {
	return c.set
}

// Close releases the pattern library, drops every handle and closes the
// journal. Handles compiled through Compile stay live in the journal and are
// restored by the next Cache opened on it.
// Always call Close when done with the cache.
func (c *Cache) Close() error {
	if c.set != nil {
		c.set.Close()
	}
	if c.reg != nil {
		c.reg.Close()
	}
	if c.journal != nil {
		return c.journal.Close()
	}
	return nil
}
