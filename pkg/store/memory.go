package store

import (
	"cmp"
	"slices"
	"sync"

	"github.com/praetorian-inc/regcache/pkg/types"
)

// MemoryStore implements Store using in-memory data structures.
// No CGO or database dependency required; the journal is lost on exit.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[types.Handle]*Record
	max     types.Handle
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		records: make(map[types.Handle]*Record),
		max:     types.InvalidHandle,
	}
}

// RecordCompile stores a newly compiled handle.
func (m *MemoryStore) RecordCompile(e types.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[e.Handle] = &Record{Entry: e}
	if e.Handle > m.max {
		m.max = e.Handle
	}
	return nil
}

// RecordRelease marks a handle released.
func (m *MemoryStore) RecordRelease(r types.Released) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[r.Handle]
	if !ok || rec.ReleasedAt != nil {
		// Idempotent - unknown or already released
		return nil
	}
	at := r.ReleasedAt
	rec.ReleasedAt = &at
	return nil
}

// Live returns entries not yet released, ordered by handle.
func (m *MemoryStore) Live() ([]types.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	live := make([]types.Entry, 0, len(m.records))
	for _, rec := range m.records {
		if rec.ReleasedAt == nil {
			live = append(live, rec.Entry)
		}
	}
	slices.SortFunc(live, func(a, b types.Entry) int {
		return cmp.Compare(a.Handle, b.Handle)
	})
	return live, nil
}

// MaxHandle returns the largest handle ever recorded.
func (m *MemoryStore) MaxHandle() (types.Handle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.max, nil
}

// Records returns the full journal, ordered by handle.
func (m *MemoryStore) Records() ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, *rec)
	}
	slices.SortFunc(out, func(a, b Record) int {
		return cmp.Compare(a.Handle, b.Handle)
	})
	return out, nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}
