package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// resetFlags restores every package-level flag to its default.
func resetFlags(t *testing.T) {
	t.Helper()
	verbose, quiet = false, false
	configPath, flagSyntax, flagTimeout = "", "", ""
	flagColor = "never"
	queryFormat = "human"
	serveJournal, servePatterns, serveBuiltin = "", nil, false
	patternsPath, patternsFormat, patternsInclude, patternsExclude = "", "table", "", ""
	journalPath, journalFormat, journalAll = "", "table", false
}

// testCmd returns a bare command writing to a buffer and reading stdin.
func testCmd(stdin string) (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(stdin))
	return cmd, &buf
}
