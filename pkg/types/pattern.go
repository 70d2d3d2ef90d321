package types

import (
	"crypto/sha1"
	"encoding/hex"
)

// Pattern is a named, documented pattern from a pattern library.
type Pattern struct {
	ID               string   // e.g., "core.ssn"
	Name             string   // human-readable name
	Pattern          string   // regex source
	StructuralID     string   // SHA-1 of pattern (computed)
	Description      string   // optional
	Examples         []string // text that must contain a match
	NegativeExamples []string // text that must not contain a match
	Categories       []string // classification tags
	Keywords         []string // literals for Aho-Corasick prefiltering
}

// ComputeStructuralID computes the SHA-1 of the pattern source.
// Two library entries with the same source share a structural ID.
func (p *Pattern) ComputeStructuralID() string {
	h := sha1.New()
	h.Write([]byte(p.Pattern))
	return hex.EncodeToString(h.Sum(nil))
}
