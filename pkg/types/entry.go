package types

import "time"

// Entry records one compiled pattern as it was registered.
// Journals persist entries so a registry can be rebuilt after a restart.
type Entry struct {
	Handle     Handle    `json:"handle"`
	Pattern    string    `json:"pattern"`
	Syntax     string    `json:"syntax"`
	Groups     int       `json:"groups"`
	CompiledAt time.Time `json:"compiled_at"`
}

// Released reports the release of a handle.
type Released struct {
	Handle     Handle    `json:"handle"`
	ReleasedAt time.Time `json:"released_at"`
}
