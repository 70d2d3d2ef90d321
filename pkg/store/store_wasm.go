//go:build wasm

package store

import "fmt"

// New creates a store for WASM builds.
// Only MemoryStore is available (no filesystem or network database).
func New(cfg Config) (Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	if cfg.Path != ":memory:" {
		return nil, fmt.Errorf("only :memory: journals are supported in WASM builds")
	}
	return NewMemory(), nil
}
