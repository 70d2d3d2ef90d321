package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	quiet       bool
	configPath  string
	flagSyntax  string
	flagTimeout string
	flagColor   string
)

// logger is replaced in PersistentPreRun once flags are parsed.
var logger = slog.New(slog.DiscardHandler)

var rootCmd = &cobra.Command{
	Use:   "regcache",
	Short: "regcache - compiled pattern cache with a handle-based API",
	Long: `regcache compiles regular expressions once and serves them by integer handle.

Use the query commands (match, search, findall, sub) for one-off work, or
"regcache serve" to expose the cache over newline-delimited JSON.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = newLogger(cmd.ErrOrStderr(), verbose, quiet)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagSyntax, "syntax", "", "Pattern syntax: ecmascript, re2, perl, auto (default ecmascript)")
	rootCmd.PersistentFlags().StringVar(&flagTimeout, "timeout", "", "Match timeout, e.g. 500ms (default none)")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "", "Color output: auto, always, never (default auto)")

	// Add subcommands
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(findAllCmd)
	rootCmd.AddCommand(subCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
