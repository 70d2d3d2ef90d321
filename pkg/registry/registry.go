// Package registry implements a handle-based cache of compiled patterns.
//
// A caller compiles a pattern once, receives an opaque Handle, and reuses the
// handle for matching, searching, extraction and substitution. Handles are
// never reused: the counter only increases, and a released handle stays
// unknown for the lifetime of the registry.
//
// Thread Safety: all methods are safe for concurrent use. Compile and Release
// serialize on a write lock; queries hold the read lock only while looking up
// the matcher and run the engine without any lock. A Release concurrent with
// a query never invalidates the query, which keeps the matcher it already
// looked up.
package registry

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/praetorian-inc/regcache/pkg/types"
)

// entry is one live handle.
type entry struct {
	matcher    engine.Matcher
	compiledAt time.Time
}

// Registry maps handles to compiled matchers.
type Registry struct {
	cfg *config

	mu      sync.RWMutex
	entries map[types.Handle]*entry
	retired map[types.Handle]struct{} // released or closed; never live again
	next    types.Handle

	compiled atomic.Uint64
	failed   atomic.Uint64
	released atomic.Uint64
}

// Stats is a point-in-time view of registry activity.
type Stats struct {
	Live       int          `json:"live"`
	NextHandle types.Handle `json:"next_handle"`
	Compiled   uint64       `json:"compiled"`
	Failed     uint64       `json:"failed"`
	Released   uint64       `json:"released"`
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.first < 0 {
		cfg.first = 0
	}

	return &Registry{
		cfg:     cfg,
		entries: make(map[types.Handle]*entry),
		retired: make(map[types.Handle]struct{}),
		next:    cfg.first,
	}
}

// Compile compiles pattern and registers it under a fresh handle.
// On failure it returns InvalidHandle and an error wrapping ErrCompile;
// nothing is registered and no handle value is consumed.
func (r *Registry) Compile(pattern string) (types.Handle, error) {
	// Compile outside the lock; only insertion is serialized
	m, err := r.cfg.compile(pattern, r.cfg.engine)
	if err != nil {
		r.failed.Add(1)
		r.cfg.logger.Debug("compile failed", "pattern", pattern, "error", err)
		return types.InvalidHandle, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next == math.MaxInt64 {
		return types.InvalidHandle, ErrHandlesExhausted
	}

	h := r.next
	r.next++
	e := &entry{matcher: m, compiledAt: r.cfg.now()}
	r.entries[h] = e
	r.compiled.Add(1)

	r.recordCompile(h, e)
	r.cfg.logger.Debug("compiled", "handle", h, "groups", m.NumGroups())

	return h, nil
}

// Release removes h. Releasing an unknown or already released handle is a no-op.
func (r *Registry) Release(h types.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[h]; !ok {
		return
	}
	delete(r.entries, h)
	r.retired[h] = struct{}{}
	r.released.Add(1)

	if r.cfg.journal != nil {
		rel := types.Released{Handle: h, ReleasedAt: r.cfg.now()}
		if err := r.cfg.journal.RecordRelease(rel); err != nil {
			r.cfg.logger.Warn("journal release failed", "handle", h, "error", err)
		}
	}
	r.cfg.logger.Debug("released", "handle", h)
}

// Restore registers a previously journaled entry under its original handle.
// The counter moves past e.Handle so later compiles never collide with it.
// A handle this registry has released or closed cannot be restored.
// Restore does not write to the journal; the entry is already there.
func (r *Registry) Restore(e types.Entry) error {
	if !e.Handle.Valid() {
		return fmt.Errorf("restore: %w", ErrUnknownHandle)
	}

	opts := r.cfg.engine
	if e.Syntax != "" {
		syntax, err := engine.ParseSyntax(e.Syntax)
		if err != nil {
			return fmt.Errorf("restore handle %s: %w", e.Handle, err)
		}
		opts.Syntax = syntax
	}

	m, err := r.cfg.compile(e.Pattern, opts)
	if err != nil {
		return fmt.Errorf("restore handle %s: %w: %w", e.Handle, ErrCompile, err)
	}

	compiledAt := e.CompiledAt
	if compiledAt.IsZero() {
		compiledAt = r.cfg.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[e.Handle]; ok {
		return fmt.Errorf("restore handle %s: %w", e.Handle, ErrHandleLive)
	}
	if _, ok := r.retired[e.Handle]; ok {
		return fmt.Errorf("restore handle %s: %w", e.Handle, ErrUnknownHandle)
	}
	r.entries[e.Handle] = &entry{matcher: m, compiledAt: compiledAt}
	if e.Handle >= r.next {
		if e.Handle == math.MaxInt64 {
			r.next = math.MaxInt64
		} else {
			r.next = e.Handle + 1
		}
	}
	return nil
}

// Reserve moves the counter so the next handle issued is at least h.
// It never moves the counter backwards.
func (r *Registry) Reserve(h types.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h > r.next {
		r.next = h
	}
}

// Close drops every entry without journaling releases, so a journal-backed
// registry restores them on its next start. Outstanding handles become unknown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for h := range r.entries {
		r.retired[h] = struct{}{}
	}
	clear(r.entries)
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Stats returns counters describing registry activity.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	live, next := len(r.entries), r.next
	r.mu.RUnlock()

	return Stats{
		Live:       live,
		NextHandle: next,
		Compiled:   r.compiled.Load(),
		Failed:     r.failed.Load(),
		Released:   r.released.Load(),
	}
}

// Info describes a live handle.
func (r *Registry) Info(h types.Handle) (types.Entry, error) {
	r.mu.RLock()
	e, ok := r.entries[h]
	r.mu.RUnlock()
	if !ok {
		return types.Entry{}, fmt.Errorf("handle %s: %w", h, ErrUnknownHandle)
	}
	return describe(h, e), nil
}

// Snapshot describes every live handle, ordered by handle.
func (r *Registry) Snapshot() []types.Entry {
	r.mu.RLock()
	out := make([]types.Entry, 0, len(r.entries))
	for h, e := range r.entries {
		out = append(out, describe(h, e))
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b types.Entry) int {
		return cmp.Compare(a.Handle, b.Handle)
	})
	return out
}

// lookup returns the matcher for h. The caller uses it without holding any lock.
func (r *Registry) lookup(h types.Handle) (engine.Matcher, error) {
	r.mu.RLock()
	e, ok := r.entries[h]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("handle %s: %w", h, ErrUnknownHandle)
	}
	return e.matcher, nil
}

// recordCompile must be called with the write lock held.
func (r *Registry) recordCompile(h types.Handle, e *entry) {
	if r.cfg.journal == nil {
		return
	}
	if err := r.cfg.journal.RecordCompile(describe(h, e)); err != nil {
		r.cfg.logger.Warn("journal compile failed", "handle", h, "error", err)
	}
}

func describe(h types.Handle, e *entry) types.Entry {
	return types.Entry{
		Handle:     h,
		Pattern:    e.matcher.Pattern(),
		Syntax:     e.matcher.Syntax().String(),
		Groups:     e.matcher.NumGroups(),
		CompiledAt: e.compiledAt,
	}
}
