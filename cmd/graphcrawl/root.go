// Package main provides the entry point for the graphcrawl CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitCodeError carries a process exit code alongside an optional message.
// The crawl command uses it to map crawl outcomes to the documented exit
// codes: 0 completed, 1 failed, 2 skipped.
type exitCodeError struct {
	code int
	msg  string
}

// Error implements the error interface.
func (e *exitCodeError) Error() string {
	return e.msg
}

// NewRootCmd creates the root command for graphcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graphcrawl",
		Short: "Bounded relationship-graph crawler for codebases",
		Long: `Graphcrawl explores relationship graphs inside large codebases: view
structures, database schemas, import graphs, event flows, and API endpoint
maps. Every crawl runs under hard depth, breadth, time, and memory bounds,
and sensitive identifiers are redacted before they reach the output.

Partial results are normal: a crawl stopped by a safety limit still reports
everything gathered so far, together with the metrics explaining the stop.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and maps crawl outcomes to exit codes.
func Execute() {
	err := NewRootCmd().Execute()
	if err == nil {
		return
	}

	var ec *exitCodeError
	if errors.As(err, &ec) {
		if ec.msg != "" {
			fmt.Fprintln(os.Stderr, ec.msg)
		}
		os.Exit(ec.code)
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
