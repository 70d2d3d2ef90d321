package main

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/praetorian-inc/regcache/pkg/types"
	"golang.org/x/term"
)

// styles holds color formatters for query output
type styles struct {
	match     *color.Color
	group     *color.Color
	delimiter *color.Color
	heading   *color.Color
	handle    *color.Color
	muted     *color.Color
}

// newStyles creates color formatters.
func newStyles(enabled bool) *styles {
	s := &styles{
		match:     color.New(color.Bold, color.FgYellow),
		group:     color.New(color.FgHiGreen),
		delimiter: color.New(color.FgHiBlack),
		heading:   color.New(color.Bold),
		handle:    color.New(color.FgHiBlue),
		muted:     color.New(color.FgHiBlack),
	}

	// Override color.NoColor, which only looks at os.Stdout
	for _, c := range []*color.Color{s.match, s.group, s.delimiter, s.heading, s.handle, s.muted} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	return s
}

// colorEnabled decides whether to color output written to w.
func colorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Color only a TTY, and only when NO_COLOR is not set
		f, ok := w.(*os.File)
		if !ok || !term.IsTerminal(int(f.Fd())) {
			return false
		}
		return os.Getenv("NO_COLOR") == ""
	}
}

// span is a match location in runes.
type span struct {
	start, end int
}

// matchSpans returns the location of every match of m in text, stepping past
// empty matches the same way find-all does.
func matchSpans(m engine.Matcher, text []rune, limit int) ([]span, error) {
	var spans []span
	cursor := 0
	for cursor <= len(text) {
		if limit > 0 && len(spans) == limit {
			break
		}
		match, err := m.FindAt(text, cursor)
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}
		spans = append(spans, span{match.Index, match.End()})

		next := match.End()
		if match.Length == 0 {
			if next >= len(text) {
				break
			}
			next++
		}
		cursor = next
	}
	return spans, nil
}

// highlight renders text with every span styled as a match.
// Empty matches are shown as a marker so they stay visible.
func (s *styles) highlight(text []rune, spans []span) string {
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		b.WriteString(string(text[pos:sp.start]))
		if sp.start == sp.end {
			b.WriteString(s.muted.Sprint("‸"))
		} else {
			b.WriteString(s.match.Sprint(string(text[sp.start:sp.end])))
		}
		pos = sp.end
	}
	b.WriteString(string(text[pos:]))
	return b.String()
}

// value renders one find-all element, making group delimiters visible.
func (s *styles) value(v string) string {
	if !strings.Contains(v, types.GroupDelimiter) {
		return s.group.Sprint(v)
	}
	parts := strings.Split(v, types.GroupDelimiter)
	for i, p := range parts {
		parts[i] = s.group.Sprint(p)
	}
	return strings.Join(parts, s.delimiter.Sprint(" │ "))
}
