// Package prefilter narrows a pattern set to the patterns worth running
// against a text, using an Aho-Corasick scan over their literal keywords.
package prefilter

import (
	"strings"

	"github.com/cloudflare/ahocorasick"
	"github.com/praetorian-inc/regcache/pkg/types"
)

// Prefilter uses Aho-Corasick for efficient keyword matching.
type Prefilter struct {
	matcher    *ahocorasick.Matcher
	foldCase   bool
	keywords   []string // keyword at each dictionary index
	byKeyword  [][]int  // dictionary index -> pattern positions needing it
	patterns   []*types.Pattern
	unfiltered []int // positions of patterns without keywords (always run)
}

// Option configures a Prefilter.
type Option func(*Prefilter)

// WithFoldCase matches keywords case-insensitively (ASCII and Unicode
// simple folding via strings.ToLower).
func WithFoldCase() Option {
	return func(pf *Prefilter) {
		pf.foldCase = true
	}
}

// New creates a prefilter over patterns.
func New(patterns []*types.Pattern, opts ...Option) *Prefilter {
	pf := &Prefilter{patterns: patterns}
	for _, opt := range opts {
		opt(pf)
	}

	index := make(map[string]int)
	for pos, p := range patterns {
		if len(p.Keywords) == 0 {
			pf.unfiltered = append(pf.unfiltered, pos)
			continue
		}
		for _, kw := range p.Keywords {
			if kw == "" {
				continue
			}
			if pf.foldCase {
				kw = strings.ToLower(kw)
			}
			i, ok := index[kw]
			if !ok {
				i = len(pf.keywords)
				index[kw] = i
				pf.keywords = append(pf.keywords, kw)
				pf.byKeyword = append(pf.byKeyword, nil)
			}
			pf.byKeyword[i] = append(pf.byKeyword[i], pos)
		}
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Len returns the number of distinct keywords in the dictionary.
func (pf *Prefilter) Len() int {
	return len(pf.keywords)
}

// Filter returns the patterns that might match text: those with a keyword
// present in text plus those with no keywords at all. The result keeps
// the order the patterns were given to New.
func (pf *Prefilter) Filter(text string) []*types.Pattern {
	selected := make([]bool, len(pf.patterns))
	for _, pos := range pf.unfiltered {
		selected[pos] = true
	}

	if pf.matcher != nil {
		if pf.foldCase {
			text = strings.ToLower(text)
		}
		for _, hit := range pf.matcher.Match([]byte(text)) {
			for _, pos := range pf.byKeyword[hit] {
				selected[pos] = true
			}
		}
	}

	result := make([]*types.Pattern, 0, len(pf.unfiltered))
	for pos, ok := range selected {
		if ok {
			result = append(result, pf.patterns[pos])
		}
	}
	return result
}
