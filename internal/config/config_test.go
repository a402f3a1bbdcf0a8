package config

import (
	"errors"
	"testing"
	"time"

	"github.com/nao1215/graphcrawl/internal/model"
)

// TestNewDefaults verifies that New with no options returns the documented
// default bounds. This serves as living documentation: if a default changes,
// this test fails and the change must be intentional.
func TestNewDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("default MaxDepth is 3", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxDepth != 3 {
			t.Errorf("expected MaxDepth to be 3, got %d", cfg.MaxDepth)
		}
	})

	t.Run("default MaxBreadth is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxBreadth != 10 {
			t.Errorf("expected MaxBreadth to be 10, got %d", cfg.MaxBreadth)
		}
	})

	t.Run("default Timeout is 30 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 30*time.Second {
			t.Errorf("expected Timeout to be 30s, got %v", cfg.Timeout)
		}
	})

	t.Run("default MaxFiles is 50", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxFiles != 50 {
			t.Errorf("expected MaxFiles to be 50, got %d", cfg.MaxFiles)
		}
	})

	t.Run("default MaxMemoryMB is 500", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxMemoryMB != 500 {
			t.Errorf("expected MaxMemoryMB to be 500, got %d", cfg.MaxMemoryMB)
		}
	})

	t.Run("default scope is view_structure", func(t *testing.T) {
		t.Parallel()
		if cfg.Scope != model.ScopeViewStructure {
			t.Errorf("expected scope view_structure, got %q", cfg.Scope)
		}
	})

	t.Run("default follow flags", func(t *testing.T) {
		t.Parallel()
		if !cfg.FollowImports {
			t.Error("expected FollowImports to default to true")
		}
		if cfg.FollowCalls {
			t.Error("expected FollowCalls to default to false")
		}
		if !cfg.FollowDBForeignKeys {
			t.Error("expected FollowDBForeignKeys to default to true")
		}
	})

	t.Run("default skip patterns are compiled", func(t *testing.T) {
		t.Parallel()
		if len(cfg.CompiledSkipPatterns()) != 6 {
			t.Errorf("expected 6 compiled skip patterns, got %d", len(cfg.CompiledSkipPatterns()))
		}
	})

	t.Run("default MaxResultSizeMB is 5", func(t *testing.T) {
		t.Parallel()
		if cfg.MaxResultSizeMB != 5 {
			t.Errorf("expected MaxResultSizeMB to be 5, got %d", cfg.MaxResultSizeMB)
		}
	})

	t.Run("default Verbose is false", func(t *testing.T) {
		t.Parallel()
		if cfg.Verbose {
			t.Error("expected Verbose to default to false")
		}
	})
}

// TestNewValidation tests the validation rules applied during construction.
// Each test case exercises one specific rule.
func TestNewValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{name: "negative depth is rejected", opts: []Option{WithMaxDepth(-1)}, wantErr: ErrInvalidMaxDepth},
		{name: "zero depth is valid", opts: []Option{WithMaxDepth(0)}, wantErr: nil},
		{name: "zero breadth is rejected", opts: []Option{WithMaxBreadth(0)}, wantErr: ErrInvalidMaxBreadth},
		{name: "zero timeout is rejected", opts: []Option{WithTimeout(0)}, wantErr: ErrInvalidTimeout},
		{name: "negative timeout is rejected", opts: []Option{WithTimeout(-time.Second)}, wantErr: ErrInvalidTimeout},
		{name: "zero max files is rejected", opts: []Option{WithMaxFiles(0)}, wantErr: ErrInvalidMaxFiles},
		{name: "zero memory ceiling is rejected", opts: []Option{WithMaxMemoryMB(0)}, wantErr: ErrInvalidMaxMemory},
		{name: "zero result size is rejected", opts: []Option{WithMaxResultSizeMB(0)}, wantErr: ErrInvalidMaxResultSize},
		{name: "unknown scope is rejected", opts: []Option{WithScope(model.Scope("bogus"))}, wantErr: ErrInvalidScope},
		{name: "malformed pattern is rejected", opts: []Option{WithSkipPatterns([]string{"valid", "([unclosed"})}, wantErr: ErrInvalidSkipPattern},
		{name: "empty pattern list is valid", opts: []Option{WithSkipPatterns(nil)}, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := New(tt.opts...)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if cfg == nil {
					t.Fatal("expected config, got nil")
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if cfg != nil {
				t.Error("expected nil config on validation failure")
			}
		})
	}
}

// TestCompiledSkipPatternsCaseInsensitive verifies that compiled patterns
// match regardless of the identifier's case.
func TestCompiledSkipPatternsCaseInsensitive(t *testing.T) {
	t.Parallel()

	cfg, err := New(WithSkipPatterns([]string{"api[_-]?key"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	patterns := cfg.CompiledSkipPatterns()
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns))
	}

	for _, id := range []string{"API_KEY", "ApiKey", "api-key", "stripe_api_key"} {
		if !patterns[0].MatchString(id) {
			t.Errorf("expected pattern to match %q", id)
		}
	}
	if patterns[0].MatchString("api_quota") {
		t.Error("expected pattern not to match api_quota")
	}
}

// TestOptionsOverlayDefaults verifies that options overlay rather than
// replace the default set.
func TestOptionsOverlayDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := New(
		WithMaxDepth(5),
		WithScope(model.ScopeDatabaseSchema),
		WithFollowCalls(true),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.MaxDepth != 5 {
		t.Errorf("expected MaxDepth 5, got %d", cfg.MaxDepth)
	}
	if cfg.Scope != model.ScopeDatabaseSchema {
		t.Errorf("expected database_schema scope, got %q", cfg.Scope)
	}
	if !cfg.FollowCalls {
		t.Error("expected FollowCalls to be enabled")
	}
	// Untouched options keep their defaults
	if cfg.MaxBreadth != DefaultMaxBreadth {
		t.Errorf("expected MaxBreadth to keep default %d, got %d", DefaultMaxBreadth, cfg.MaxBreadth)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected Timeout to keep default %v, got %v", DefaultTimeout, cfg.Timeout)
	}
}
