package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/praetorian-inc/regcache/pkg/store"
	"github.com/spf13/cobra"
)

var (
	journalPath   string
	journalFormat string
	journalAll    bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect handle journals",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journaled handles",
	Long:  "Display the handles recorded in a journal. Released handles are shown with --all.",
	RunE:  runJournalList,
}

func init() {
	journalCmd.AddCommand(journalListCmd)
	journalCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Journal path: SQLite file or postgres:// URL")
	journalListCmd.Flags().StringVar(&journalFormat, "format", "table", "Output format: table, json")
	journalListCmd.Flags().BoolVar(&journalAll, "all", false, "Include released handles")
}

func runJournalList(cmd *cobra.Command, args []string) error {
	path := journalPath
	if path == "" {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		path = s.journal
	}
	if path == "" {
		return fmt.Errorf("--journal is required")
	}

	j, err := store.New(store.Config{Path: path})
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer j.Close()

	records, err := j.Records()
	if err != nil {
		return err
	}
	if !journalAll {
		live := records[:0]
		for _, r := range records {
			if !r.Released() {
				live = append(live, r)
			}
		}
		records = live
	}

	switch journalFormat {
	case "json":
		if records == nil {
			records = []store.Record{}
		}
		return writeJSON(cmd.OutOrStdout(), records)
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintf(w, "Handle\tStatus\tSyntax\tGroups\tPattern\n")
		fmt.Fprintf(w, "------\t------\t------\t------\t-------\n")
		for _, r := range records {
			status := "live"
			if r.Released() {
				status = "released"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.Handle, status, r.Syntax, r.Groups, r.Pattern)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", journalFormat)
	}
}
