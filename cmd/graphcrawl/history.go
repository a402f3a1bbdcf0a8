package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/graphcrawl/internal/config"
	"github.com/nao1215/graphcrawl/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [origin]",
		Short: "List stored crawl results",
		Long: `History lists crawls stored with the --save flag.

Without an argument it lists every origin with stored crawls. With an origin
it lists that origin's crawl summaries, newest first.

Examples:
  # List all origins with stored crawls
  graphcrawl history

  # List crawl summaries for one origin
  graphcrawl history src/app.ts`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	db, err := database.Open(config.XDGDataDir(), database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no crawl history found (crawl with --save first): %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-only session

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		origins, err := db.ListOrigins(ctx)
		if err != nil {
			return err
		}
		if len(origins) == 0 {
			fmt.Fprintln(out, "No stored crawls.")
			return nil
		}
		for _, origin := range origins {
			fmt.Fprintln(out, origin)
		}
		return nil
	}

	origin := args[0]
	history, err := db.GetHistory(ctx, origin)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintf(out, "No stored crawls for %s.\n", origin)
		return nil
	}

	fmt.Fprintf(out, "Crawl history for %s:\n\n", origin)
	for _, meta := range history {
		marker := " "
		if meta.CircuitBreakerTriggered {
			marker = "!"
		}
		fmt.Fprintf(out, "%s #%d  %s  %-9s  scope=%s  nodes=%d  edges=%d  depth=%d  %.2fs\n",
			marker,
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.Status,
			meta.Scope,
			meta.NodeCount,
			meta.EdgeCount,
			meta.DepthReached,
			meta.DurationSeconds,
		)
	}
	return nil
}
