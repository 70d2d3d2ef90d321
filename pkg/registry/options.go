package registry

import (
	"log/slog"
	"time"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/praetorian-inc/regcache/pkg/types"
)

// Journal receives structural changes to a registry.
// Calls are made while the registry holds its write lock, so a journal sees
// compiles and releases in the order they took effect.
type Journal interface {
	RecordCompile(e types.Entry) error
	RecordRelease(r types.Released) error
}

// CompileFunc builds a matcher from a pattern.
type CompileFunc func(pattern string, opts engine.Options) (engine.Matcher, error)

// config holds registry configuration.
type config struct {
	engine  engine.Options
	compile CompileFunc
	journal Journal
	logger  *slog.Logger
	first   types.Handle
	now     func() time.Time
}

// Option configures a Registry.
type Option func(*config)

// WithEngineOptions sets the options every pattern is compiled with.
func WithEngineOptions(opts engine.Options) Option {
	return func(c *config) {
		c.engine = opts
	}
}

// WithCompiler replaces the regexp2-backed compiler.
func WithCompiler(fn CompileFunc) Option {
	return func(c *config) {
		c.compile = fn
	}
}

// WithJournal records every compile and release.
// Journal failures are logged and never fail the operation.
func WithJournal(j Journal) Option {
	return func(c *config) {
		c.journal = j
	}
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithFirstHandle sets the first handle value issued.
func WithFirstHandle(h types.Handle) Option {
	return func(c *config) {
		c.first = h
	}
}

func defaultCompile(pattern string, opts engine.Options) (engine.Matcher, error) {
	m, err := engine.Compile(pattern, opts)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func defaultConfig() *config {
	return &config{
		engine:  engine.DefaultOptions(),
		compile: defaultCompile,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
}
