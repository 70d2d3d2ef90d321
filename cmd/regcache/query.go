package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/praetorian-inc/regcache/pkg/engine"
	"github.com/praetorian-inc/regcache/pkg/registry"
	"github.com/praetorian-inc/regcache/pkg/types"
	"github.com/spf13/cobra"
)

var queryFormat string

var matchCmd = &cobra.Command{
	Use:   "match PATTERN TEXT",
	Short: "Test whether TEXT matches PATTERN in full",
	Long:  `Test whether the whole of TEXT matches PATTERN. Use "-" as TEXT to read standard input.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runMatch,
}

var searchCmd = &cobra.Command{
	Use:   "search PATTERN TEXT",
	Short: "Find the leftmost match of PATTERN in TEXT",
	Args:  cobra.ExactArgs(2),
	RunE:  runSearch,
}

var findAllCmd = &cobra.Command{
	Use:   "findall PATTERN TEXT",
	Short: "List every match of PATTERN in TEXT",
	Long: `List every match of PATTERN in TEXT, left to right.

Each value is the whole match when PATTERN has no capture groups, group 1
when it has one, and all groups joined by \x01 when it has more.`,
	Args: cobra.ExactArgs(2),
	RunE: runFindAll,
}

var subCmd = &cobra.Command{
	Use:   "sub PATTERN TEXT REPLACEMENT",
	Short: "Replace every match of PATTERN in TEXT",
	Long:  `Replace every match of PATTERN in TEXT. REPLACEMENT may reference groups as $1, ${1} or $0; $$ is a literal dollar.`,
	Args:  cobra.ExactArgs(3),
	RunE:  runSub,
}

func init() {
	for _, cmd := range []*cobra.Command{matchCmd, searchCmd, findAllCmd, subCmd} {
		cmd.Flags().StringVar(&queryFormat, "format", "human", "Output format: human, json")
	}
}

// query is one compiled pattern for the lifetime of a command.
type query struct {
	reg     *registry.Registry
	handle  types.Handle
	pattern string
	opts    engine.Options
	text    string
	styles  *styles
	json    bool
}

func newQuery(cmd *cobra.Command, pattern, text string) (*query, error) {
	switch queryFormat {
	case "human", "json":
	default:
		return nil, fmt.Errorf("unknown output format: %s", queryFormat)
	}

	s, err := loadSettings()
	if err != nil {
		return nil, err
	}

	if text == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		text = strings.TrimSuffix(string(data), "\n")
	}

	reg := registry.New(registry.WithEngineOptions(s.engine), registry.WithLogger(logger))
	h, err := reg.Compile(pattern)
	if err != nil {
		return nil, err
	}
	logger.Debug("compiled", "pattern", pattern, "handle", h, "syntax", s.engine.Syntax)

	return &query{
		reg:     reg,
		handle:  h,
		pattern: pattern,
		opts:    s.engine,
		text:    text,
		styles:  newStyles(colorEnabled(s.color, cmd.OutOrStdout())),
		json:    queryFormat == "json",
	}, nil
}

// spans locates up to limit matches for highlighting.
func (q *query) spans(text []rune, limit int) ([]span, error) {
	m, err := engine.Compile(q.pattern, q.opts)
	if err != nil {
		return nil, err
	}
	return matchSpans(m, text, limit)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func runMatch(cmd *cobra.Command, args []string) error {
	q, err := newQuery(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	matched, err := q.reg.MatchCompiledE(q.handle, q.text)
	if err != nil {
		return err
	}

	if q.json {
		return writeJSON(cmd.OutOrStdout(), map[string]bool{"matched": matched})
	}
	if matched {
		fmt.Fprintln(cmd.OutOrStdout(), q.styles.match.Sprint("match"))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), q.styles.muted.Sprint("no match"))
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	q, err := newQuery(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	match, found, err := q.reg.Search(q.handle, q.text)
	if err != nil {
		return err
	}

	if q.json {
		return writeJSON(cmd.OutOrStdout(), struct {
			Found bool   `json:"found"`
			Match string `json:"match"`
		}{found, match})
	}

	out := cmd.OutOrStdout()
	if !found {
		fmt.Fprintln(out, q.styles.muted.Sprint("no match"))
		return nil
	}

	runes := []rune(q.text)
	spans, err := q.spans(runes, 1)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, q.styles.highlight(runes, spans))
	return nil
}

func runFindAll(cmd *cobra.Command, args []string) error {
	q, err := newQuery(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	values, err := q.reg.FindAll(q.handle, q.text)
	if err != nil {
		return err
	}

	if q.json {
		return writeJSON(cmd.OutOrStdout(), map[string][]string{"values": values})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n", q.styles.heading.Sprintf("%d match(es)", len(values)))
	for i, v := range values {
		fmt.Fprintf(out, "%s %s\n", q.styles.handle.Sprintf("%3d", i), q.styles.value(v))
	}
	return nil
}

func runSub(cmd *cobra.Command, args []string) error {
	q, err := newQuery(cmd, args[0], args[1])
	if err != nil {
		return err
	}

	result, err := q.reg.Substitute(q.handle, q.text, args[2])
	if err != nil {
		return err
	}

	if q.json {
		return writeJSON(cmd.OutOrStdout(), map[string]string{"result": result})
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
