package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/graphcrawl/internal/config"
	"github.com/nao1215/graphcrawl/internal/crawler"
	"github.com/nao1215/graphcrawl/internal/database"
	"github.com/nao1215/graphcrawl/internal/expand"
	"github.com/nao1215/graphcrawl/internal/log"
	"github.com/nao1215/graphcrawl/internal/model"
	"github.com/nao1215/graphcrawl/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [origin...]",
		Short: "Crawl a relationship graph from one or more origins",
		Long: `Crawl explores the relationship graph around an origin identifier under
hard safety bounds: depth, breadth, wall-clock time, node count, and memory.

Built-in scopes:
  view_structure     directory/view tree rooted at the workspace
  code_dependencies  import graph scanned from source files

Examples:
  # Crawl the import graph around one file
  graphcrawl crawl --scope code_dependencies src/app.ts

  # Crawl the directory structure with a wider radius
  graphcrawl crawl --scope view_structure --max-depth 4 .

  # Crawl several origins concurrently and store the results
  graphcrawl crawl --scope code_dependencies --save src/app.ts src/api.ts

  # Machine-readable output to a file
  graphcrawl crawl --scope code_dependencies --json --output report.json src/app.ts

Configuration file (.graphcrawl) example:
  defaults:
    max_depth: 3
  scopes:
    database_schema:
      max_depth: 2
      skip_patterns:
        - password
        - ssn

Exit codes: 0 completed (radius-bounded included), 1 failed, 2 skipped.`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Crawl target flags
	cmd.Flags().StringP("origin", "O", "", "Origin identifier (alternative to the positional argument)")
	cmd.Flags().StringP("scope", "s", model.ScopeViewStructure.String(),
		"Crawl scope: view_structure, database_schema, code_dependencies, event_flow, api_endpoints")
	cmd.Flags().StringP("workspace", "w", ".", "Workspace directory the expansion adapters operate on")

	// Safety bound flags
	cmd.Flags().IntP("max-depth", "d", config.DefaultMaxDepth, "Maximum BFS depth beyond the origin")
	cmd.Flags().IntP("max-breadth", "b", config.DefaultMaxBreadth, "Maximum children kept per node")
	cmd.Flags().IntP("timeout-seconds", "t", int(config.DefaultTimeout.Seconds()), "Wall-clock budget for one crawl")
	cmd.Flags().IntP("max-files", "f", config.DefaultMaxFiles, "Maximum nodes expanded per crawl")
	cmd.Flags().IntP("max-memory-mb", "M", config.DefaultMaxMemoryMB, "Resident memory ceiling in megabytes")

	// Batch flags
	cmd.Flags().IntP("concurrency", "C", 4, "Concurrent crawls when multiple origins are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .graphcrawl in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("save", false, "Store the result in the crawl history database")

	return cmd
}

// crawlOptions collects everything runCrawl needs beyond the validated
// configuration.
type crawlOptions struct {
	origins     []string
	workspace   string
	concurrency int
	jsonOut     bool
	markdownOut bool
	outputFile  string
	save        bool
	verbose     bool
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, opts, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := log.NewSecureLogger(os.Stderr, opts.verbose)
	slog.SetDefault(logger)

	// Handle interrupt signals for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, opts, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCrawlConfig builds the validated crawl configuration from the
// defaults, the .graphcrawl file, and the command flags, in that precedence
// order.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, *crawlOptions, error) {
	scopeName, err := cmd.Flags().GetString("scope")
	if err != nil {
		return nil, nil, err
	}
	scope, err := model.ParseScope(scopeName)
	if err != nil {
		return nil, nil, err
	}

	configOpts := []config.Option{config.WithScope(scope)}

	// Config file overrides come before flag overrides.
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, err
	}
	explicitConfigPath := configPath != ""
	foundPath := config.FindConfigFile(configPath)

	switch {
	case foundPath != "":
		file, err := config.LoadConfigFile(foundPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config file %s: %w", foundPath, err)
		}
		configOpts = append(configOpts, file.GetScopeConfig(scope.String()).Options()...)
	case explicitConfigPath:
		return nil, nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	// Only flags the user actually set override the file.
	intFlags := []struct {
		name   string
		option func(int) config.Option
	}{
		{"max-depth", config.WithMaxDepth},
		{"max-breadth", config.WithMaxBreadth},
		{"max-files", config.WithMaxFiles},
		{"max-memory-mb", config.WithMaxMemoryMB},
	}
	for _, f := range intFlags {
		if cmd.Flags().Changed(f.name) {
			v, err := cmd.Flags().GetInt(f.name)
			if err != nil {
				return nil, nil, err
			}
			configOpts = append(configOpts, f.option(v))
		}
	}
	if cmd.Flags().Changed("timeout-seconds") {
		seconds, err := cmd.Flags().GetInt("timeout-seconds")
		if err != nil {
			return nil, nil, err
		}
		configOpts = append(configOpts, config.WithTimeout(time.Duration(seconds)*time.Second))
	}

	verbose := getVerboseFlag(cmd)
	configOpts = append(configOpts, config.WithVerbose(verbose))

	cfg, err := config.New(configOpts...)
	if err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}

	opts := &crawlOptions{verbose: verbose}

	origin, err := cmd.Flags().GetString("origin")
	if err != nil {
		return nil, nil, err
	}
	opts.origins = args
	if origin != "" {
		opts.origins = append([]string{origin}, args...)
	}
	if len(opts.origins) == 0 {
		return nil, nil, fmt.Errorf("no origin provided (pass an identifier as an argument or via --origin)")
	}

	if opts.workspace, err = cmd.Flags().GetString("workspace"); err != nil {
		return nil, nil, err
	}
	if opts.concurrency, err = cmd.Flags().GetInt("concurrency"); err != nil {
		return nil, nil, err
	}
	if opts.jsonOut, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, nil, err
	}
	if opts.markdownOut, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, nil, err
	}
	if opts.jsonOut && opts.markdownOut {
		return nil, nil, fmt.Errorf("--json and --markdown are mutually exclusive")
	}
	if opts.outputFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, nil, err
	}
	if opts.save, err = cmd.Flags().GetBool("save"); err != nil {
		return nil, nil, err
	}

	return cfg, opts, nil
}

// runCrawl executes the crawl(s) and renders the results.
func runCrawl(ctx context.Context, cfg *config.Config, opts *crawlOptions, logger *slog.Logger) error {
	expander, err := expand.For(cfg.Scope, opts.workspace, cfg)
	if err != nil {
		return err
	}

	executor := crawler.NewExecutor(cfg, expander,
		crawler.WithPrecondition(expand.CanRun(opts.workspace)),
		crawler.WithMetadata(map[string]string{"workspace": opts.workspace}),
		crawler.WithExecutorLogger(logger),
	)

	var db *database.CrawlDB
	if opts.save {
		db, err = database.Open(config.XDGDataDir(), database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Best effort cleanup
		logger.Info("database opened", "dir", config.XDGDataDir())
	}

	results, err := collectResults(ctx, executor, opts, logger)
	if err != nil {
		return err
	}

	worst := model.StatusCompleted
	for _, result := range results {
		if err := outputResult(opts, cfg, result); err != nil {
			return err
		}
		if db != nil {
			if _, err := db.SaveCrawlResult(ctx, result); err != nil {
				logger.Error("failed to save crawl result", "origin", result.Origin, "error", err)
			}
		}
		worst = worseStatus(worst, result.Status)
	}

	if worst != model.StatusCompleted {
		return &exitCodeError{code: worst.ExitCode()}
	}
	return nil
}

// collectResults runs a single crawl or a concurrent batch depending on the
// number of origins.
func collectResults(ctx context.Context, executor *crawler.Executor, opts *crawlOptions, logger *slog.Logger) ([]*model.CrawlResult, error) {
	if len(opts.origins) == 1 {
		result, err := executor.Execute(ctx, opts.origins[0])
		if result == nil {
			return nil, err
		}
		// Failed preconditions still carry a reportable result.
		return []*model.CrawlResult{result}, nil
	}

	runner := crawler.NewBatchRunner(executor,
		crawler.WithConcurrency(opts.concurrency),
		crawler.WithBatchLogger(logger),
	)
	return runner.Run(ctx, opts.origins)
}

// worseStatus returns the more severe of two statuses: failed beats skipped
// beats completed. The worst status of a batch decides the exit code.
func worseStatus(a, b model.Status) model.Status {
	rank := func(s model.Status) int {
		switch s {
		case model.StatusFailed:
			return 2
		case model.StatusSkipped:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

// outputResult renders one crawl result in the requested format.
func outputResult(opts *crawlOptions, cfg *config.Config, result *model.CrawlResult) error {
	var output *os.File
	if opts.outputFile != "" {
		dir := filepath.Dir(opts.outputFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain identifier names from private codebases, so the
		// file is owner-readable only.
		f, err := os.OpenFile(opts.outputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best effort cleanup
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case opts.jsonOut:
		w = report.NewFullJSONWriter(output, getVersion(),
			report.WithPrettyPrint(),
			report.WithMaxResultSizeMB(cfg.MaxResultSizeMB),
		)
	case opts.markdownOut:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(opts.verbose))
	}

	_, err := w.Write(result)
	return err
}
