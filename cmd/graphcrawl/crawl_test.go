package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/graphcrawl/internal/model"
)

// TestNewCrawlCmdFlags verifies the crawl command's flag surface.
func TestNewCrawlCmdFlags(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	tests := []struct {
		name     string
		defValue string
	}{
		{name: "origin", defValue: ""},
		{name: "scope", defValue: "view_structure"},
		{name: "workspace", defValue: "."},
		{name: "max-depth", defValue: "3"},
		{name: "max-breadth", defValue: "10"},
		{name: "timeout-seconds", defValue: "30"},
		{name: "max-files", defValue: "50"},
		{name: "max-memory-mb", defValue: "500"},
		{name: "concurrency", defValue: "4"},
		{name: "json", defValue: "false"},
		{name: "markdown", defValue: "false"},
		{name: "output", defValue: ""},
		{name: "save", defValue: "false"},
		{name: "config", defValue: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected flag %q", tt.name)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("flag %q: expected default %q, got %q", tt.name, tt.defValue, flag.DefValue)
			}
		})
	}
}

// TestBuildCrawlConfig verifies configuration assembly from flags.
func TestBuildCrawlConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}
		cfg, opts, err := buildCrawlConfig(cmd, []string{"src/app.ts"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxDepth != 3 || cfg.MaxBreadth != 10 || cfg.Timeout != 30*time.Second {
			t.Errorf("unexpected defaults: %+v", cfg)
		}
		if cfg.Scope != model.ScopeViewStructure {
			t.Errorf("expected view_structure scope, got %q", cfg.Scope)
		}
		if len(opts.origins) != 1 || opts.origins[0] != "src/app.ts" {
			t.Errorf("unexpected origins %v", opts.origins)
		}
	})

	t.Run("flag overrides", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{
			"--scope", "code_dependencies",
			"--max-depth", "5",
			"--timeout-seconds", "10",
		}); err != nil {
			t.Fatal(err)
		}
		cfg, _, err := buildCrawlConfig(cmd, []string{"src/app.ts"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Scope != model.ScopeCodeDependencies {
			t.Errorf("expected code_dependencies, got %q", cfg.Scope)
		}
		if cfg.MaxDepth != 5 {
			t.Errorf("expected max depth 5, got %d", cfg.MaxDepth)
		}
		if cfg.Timeout != 10*time.Second {
			t.Errorf("expected 10s timeout, got %v", cfg.Timeout)
		}
	})

	t.Run("origin flag prepends to positional args", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--origin", "main.go"}); err != nil {
			t.Fatal(err)
		}
		_, opts, err := buildCrawlConfig(cmd, []string{"util.go"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(opts.origins) != 2 || opts.origins[0] != "main.go" || opts.origins[1] != "util.go" {
			t.Errorf("unexpected origins %v", opts.origins)
		}
	})

	t.Run("missing origin", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatal(err)
		}
		if _, _, err := buildCrawlConfig(cmd, nil); err == nil {
			t.Error("expected an error without an origin")
		}
	})

	t.Run("invalid scope", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--scope", "everything"}); err != nil {
			t.Fatal(err)
		}
		if _, _, err := buildCrawlConfig(cmd, []string{"x"}); err == nil {
			t.Error("expected an error for an unknown scope")
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--json", "--markdown"}); err != nil {
			t.Fatal(err)
		}
		if _, _, err := buildCrawlConfig(cmd, []string{"x"}); err == nil {
			t.Error("expected an error for --json with --markdown")
		}
	})

	t.Run("missing explicit config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
			t.Fatal(err)
		}
		if _, _, err := buildCrawlConfig(cmd, []string{"x"}); err == nil {
			t.Error("expected an error for a missing explicit config file")
		}
	})

	t.Run("config file scope overrides", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".graphcrawl")
		content := `defaults:
  max_depth: 2
scopes:
  code_dependencies:
    max_depth: 4
    skip_patterns:
      - internal_secret
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", path, "--scope", "code_dependencies"}); err != nil {
			t.Fatal(err)
		}
		cfg, _, err := buildCrawlConfig(cmd, []string{"x"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxDepth != 4 {
			t.Errorf("expected scope override depth 4, got %d", cfg.MaxDepth)
		}
		if len(cfg.SkipPatterns) != 1 || cfg.SkipPatterns[0] != "internal_secret" {
			t.Errorf("expected replaced skip patterns, got %v", cfg.SkipPatterns)
		}
	})

	t.Run("flags beat config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".graphcrawl")
		if err := os.WriteFile(path, []byte("defaults:\n  max_depth: 2\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewCrawlCmd()
		if err := cmd.ParseFlags([]string{"--config", path, "--max-depth", "7"}); err != nil {
			t.Fatal(err)
		}
		cfg, _, err := buildCrawlConfig(cmd, []string{"x"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.MaxDepth != 7 {
			t.Errorf("expected flag to win with depth 7, got %d", cfg.MaxDepth)
		}
	})
}

// TestWorseStatus verifies batch exit-code severity ordering.
func TestWorseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b, want model.Status
	}{
		{model.StatusCompleted, model.StatusCompleted, model.StatusCompleted},
		{model.StatusCompleted, model.StatusSkipped, model.StatusSkipped},
		{model.StatusSkipped, model.StatusFailed, model.StatusFailed},
		{model.StatusFailed, model.StatusCompleted, model.StatusFailed},
	}

	for _, tt := range tests {
		if got := worseStatus(tt.a, tt.b); got != tt.want {
			t.Errorf("worseStatus(%q, %q) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}

// TestCrawlCommandEndToEnd runs the full command against a real workspace.
func TestCrawlCommandEndToEnd(t *testing.T) {
	t.Parallel()

	workspace := t.TempDir()
	if err := os.MkdirAll(filepath.Join(workspace, "src"), 0750); err != nil {
		t.Fatal(err)
	}
	for _, file := range []string{"README.md", "src/app.ts"} {
		if err := os.WriteFile(filepath.Join(workspace, file), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("completed crawl writes json report", func(t *testing.T) {
		t.Parallel()

		outFile := filepath.Join(t.TempDir(), "report.json")
		root := NewRootCmd()
		root.SetArgs([]string{
			"crawl",
			"--scope", "view_structure",
			"--workspace", workspace,
			"--json",
			"--output", outFile,
			".",
		})

		if err := root.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(outFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}

		var wrapped struct {
			Version string             `json:"version"`
			Result  *model.CrawlResult `json:"result"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			t.Fatalf("report is not valid JSON: %v", err)
		}
		if wrapped.Result == nil || wrapped.Result.Status != model.StatusCompleted {
			t.Fatalf("expected a completed result, got %+v", wrapped.Result)
		}
		if !wrapped.Result.HasNode("src") {
			t.Errorf("expected the src directory in the graph, got %v", wrapped.Result.NodeIDs())
		}
	})

	t.Run("missing workspace is skipped with exit code 2", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		root.SetArgs([]string{
			"crawl",
			"--scope", "view_structure",
			"--workspace", filepath.Join(workspace, "does-not-exist"),
			"--output", filepath.Join(t.TempDir(), "report.txt"),
			".",
		})

		err := root.Execute()
		var ec *exitCodeError
		if !errors.As(err, &ec) {
			t.Fatalf("expected an exit-code error, got %v", err)
		}
		if ec.code != 2 {
			t.Errorf("expected exit code 2, got %d", ec.code)
		}
	})

	t.Run("scope without built-in adapter", func(t *testing.T) {
		t.Parallel()

		root := NewRootCmd()
		root.SetArgs([]string{
			"crawl",
			"--scope", "database_schema",
			"--workspace", workspace,
			"users",
		})

		err := root.Execute()
		if err == nil {
			t.Fatal("expected an error for a host-only scope")
		}
		var ec *exitCodeError
		if errors.As(err, &ec) {
			t.Errorf("expected a plain error, got exit-code error %d", ec.code)
		}
	})
}
