package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/praetorian-inc/regcache/pkg/library"
	"github.com/praetorian-inc/regcache/pkg/types"
	"github.com/spf13/cobra"
)

var (
	patternsPath    string
	patternsFormat  string
	patternsInclude string
	patternsExclude string
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage pattern libraries",
	Long:  "Commands for listing and checking named pattern libraries",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available patterns",
	Long:  "Display library patterns with their IDs, names and group counts",
	RunE:  runPatternsList,
}

var patternsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate patterns against their examples",
	Long: `Compile every library pattern and run it against its examples: each example
must contain a match and no negative example may.`,
	RunE: runPatternsCheck,
}

func init() {
	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsCheckCmd)
	patternsCmd.PersistentFlags().StringVar(&patternsPath, "patterns", "", "Pattern file or directory (default: built-in library)")
	patternsCmd.PersistentFlags().StringVar(&patternsInclude, "include", "", "Comma-separated expressions; keep patterns whose ID matches")
	patternsCmd.PersistentFlags().StringVar(&patternsExclude, "exclude", "", "Comma-separated expressions; drop patterns whose ID matches")
	patternsListCmd.Flags().StringVar(&patternsFormat, "format", "table", "Output format: table, json")
}

// loadPatterns loads --patterns, or the built-in library, and applies filters.
func loadPatterns() ([]*types.Pattern, error) {
	loader := library.NewLoader()

	var patterns []*types.Pattern
	var err error
	if patternsPath != "" {
		patterns, err = loader.LoadPath(patternsPath)
		if err != nil {
			return nil, fmt.Errorf("loading patterns from %s: %w", patternsPath, err)
		}
	} else {
		patterns, err = loader.LoadBuiltin()
		if err != nil {
			return nil, fmt.Errorf("loading builtin patterns: %w", err)
		}
	}

	return library.Filter(patterns, library.FilterConfig{
		Include: library.ParseList(patternsInclude),
		Exclude: library.ParseList(patternsExclude),
	})
}

func runPatternsList(cmd *cobra.Command, args []string) error {
	patterns, err := loadPatterns()
	if err != nil {
		return err
	}

	// Output based on format
	switch patternsFormat {
	case "json":
		return writeJSON(cmd.OutOrStdout(), patterns)
	case "table":
		return outputPatternsTable(cmd, patterns)
	default:
		return fmt.Errorf("unknown output format: %s", patternsFormat)
	}
}

func runPatternsCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	patterns, err := loadPatterns()
	if err != nil {
		return err
	}

	if err := library.ValidateAll(patterns, s.engine); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return fmt.Errorf("pattern check failed")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d patterns OK\n", len(patterns))
	return nil
}

func outputPatternsTable(cmd *cobra.Command, patterns []*types.Pattern) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tName\tKeywords\tCategories\n")
	fmt.Fprintf(w, "--\t----\t--------\t----------\n")

	for _, p := range patterns {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, strings.Join(p.Keywords, ","), strings.Join(p.Categories, ","))
	}

	return nil
}
