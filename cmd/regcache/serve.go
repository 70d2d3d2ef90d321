package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/regcache"
	"github.com/praetorian-inc/regcache/pkg/serve"
	"github.com/spf13/cobra"
)

var (
	serveJournal  string
	servePatterns []string
	serveBuiltin  bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as streaming NDJSON server",
	Long: `Run regcache as a long-lived server that accepts requests via stdin and
writes responses to stdout, one JSON object per line.

Handles stay valid for the lifetime of the process. With --journal, compiles
and releases are recorded and live handles are restored on the next start.
The process runs until stdin closes, a "close" request arrives, or SIGTERM
is received.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveJournal, "journal", "", "Journal path: SQLite file, :memory:, or postgres:// URL")
	serveCmd.Flags().StringSliceVar(&servePatterns, "patterns", nil, "Pattern library file or directory (repeatable)")
	serveCmd.Flags().BoolVar(&serveBuiltin, "builtin-patterns", false, "Load the built-in pattern library for scan requests")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}

	journal := s.journal
	if serveJournal != "" {
		journal = serveJournal
	}

	opts := []regcache.Option{
		regcache.WithSyntax(s.engine.Syntax),
		regcache.WithMatchTimeout(s.engine.MatchTimeout),
		regcache.WithLogger(logger),
		regcache.WithPatternFiles(append(s.patterns, servePatterns...)...),
	}
	if journal != "" {
		opts = append(opts, regcache.WithJournal(journal))
	}
	if s.builtin || serveBuiltin {
		opts = append(opts, regcache.WithBuiltinPatterns())
	}

	cache, err := regcache.New(opts...)
	if err != nil {
		return err
	}
	defer cache.Close()

	logger.Info("serving", "live", cache.Stats().Live, "journal", journal)

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create and run server
	srv := serve.NewServer(cache.Registry(), cmd.InOrStdin(), cmd.OutOrStdout(),
		serve.WithSet(cache.PatternSet()),
		serve.WithEngineOptions(s.engine),
		serve.WithLogger(logger),
	)
	err = srv.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
