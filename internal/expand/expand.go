package expand

import (
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/graphcrawl/internal/config"
	"github.com/nao1215/graphcrawl/internal/crawler"
	"github.com/nao1215/graphcrawl/internal/model"
)

// ErrUnsupportedScope is returned by For when no built-in adapter exists for
// the requested scope. Schema, event, and endpoint graphs live in
// host-specific systems (a database, a message broker, a route table), so
// those scopes require an adapter supplied by the embedding host.
var ErrUnsupportedScope = errors.New("expand: no built-in adapter for scope")

// For returns the built-in Expander for the given scope, rooted at workspace.
//
// Built-in coverage:
//   - view_structure: directory walker (children = directory entries)
//   - code_dependencies: import scanner (children = imported modules/files)
//
// The remaining scopes return ErrUnsupportedScope; library callers pass their
// own Expander to crawler.NewExecutor directly and never hit this registry.
func For(scope model.Scope, workspace string, cfg *config.Config) (crawler.Expander, error) {
	switch scope {
	case model.ScopeViewStructure:
		return NewDirectoryExpander(workspace), nil
	case model.ScopeCodeDependencies:
		return NewImportExpander(workspace, cfg.FollowImports), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScope, scope)
	}
}

// CanRun returns the workspace-existence precondition for the executor.
// A crawl against a missing or unreadable workspace is skipped up front
// rather than failing node by node.
func CanRun(workspace string) func() bool {
	return func() bool {
		info, err := os.Stat(workspace)
		return err == nil && info.IsDir()
	}
}
