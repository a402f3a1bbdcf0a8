package expand

import (
	"bufio"
	"context"
	"os"
	"path"
	"regexp"
	"strings"
)

// Import statement shapes per language family. Line-oriented scanning is
// deliberate: a parser per language would be far more precise but also far
// heavier, and the crawl engine tolerates imperfect adapters (a missed import
// is a missing edge, not a failure).
var (
	goImportRe = regexp.MustCompile(`^\s*(?:import\s+)?(?:[\w.]+\s+)?"([^"]+)"`)
	jsImportRe = regexp.MustCompile(`(?:from\s+|import\s+|require\()\s*['"]([^'"]+)['"]`)
	pyImportRe = regexp.MustCompile(`^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`)
)

// sourceExtensions are the file suffixes tried when resolving an
// extensionless relative import.
var sourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".go", ".py"}

// ImportExpander scans source files for import statements. Node ids are
// workspace-relative file paths; relative imports are resolved back into the
// workspace while package imports stay as opaque leaf identifiers.
type ImportExpander struct {
	workspace     string
	followImports bool

	// maxScanLines bounds how much of a file is scanned. Imports sit at the
	// top of a file in every supported language.
	maxScanLines int
}

// NewImportExpander creates an expander rooted at workspace. When
// followImports is false every node is a leaf and the crawl emits only the
// origin.
func NewImportExpander(workspace string, followImports bool) *ImportExpander {
	return &ImportExpander{
		workspace:     workspace,
		followImports: followImports,
		maxScanLines:  200,
	}
}

// GetChildren implements crawler.Expander.
func (e *ImportExpander) GetChildren(ctx context.Context, nodeID string, _ int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !e.followImports {
		return nil, nil
	}

	full := path.Join(e.workspace, nodeID)
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			// Package imports (e.g. "react", "fmt") resolve to nothing on
			// disk; they are leaves, not errors.
			return nil, nil
		}
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var children []string
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for lines := 0; scanner.Scan() && lines < e.maxScanLines; lines++ {
		for _, target := range e.extractImports(nodeID, scanner.Text()) {
			if _, dup := seen[target]; dup {
				continue
			}
			seen[target] = struct{}{}
			children = append(children, target)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return children, nil
}

// extractImports pulls import targets out of one source line, choosing the
// statement shape by the importing file's extension.
func (e *ImportExpander) extractImports(nodeID, line string) []string {
	var raw []string
	switch path.Ext(nodeID) {
	case ".go":
		if m := goImportRe.FindStringSubmatch(line); m != nil {
			raw = append(raw, m[1])
		}
	case ".js", ".jsx", ".ts", ".tsx", ".mjs":
		for _, m := range jsImportRe.FindAllStringSubmatch(line, -1) {
			raw = append(raw, m[1])
		}
	case ".py":
		if m := pyImportRe.FindStringSubmatch(line); m != nil {
			if m[1] != "" {
				raw = append(raw, m[1])
			} else {
				raw = append(raw, m[2])
			}
		}
	}

	targets := make([]string, 0, len(raw))
	for _, target := range raw {
		targets = append(targets, e.resolve(nodeID, target))
	}
	return targets
}

// resolve maps a relative import back to a workspace-relative file path,
// trying the common source extensions when the import omits one. Anything
// that cannot be located on disk is kept verbatim as an external identifier.
func (e *ImportExpander) resolve(nodeID, target string) string {
	if !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") {
		return target
	}

	resolved := path.Join(path.Dir(nodeID), target)
	if e.exists(resolved) {
		return resolved
	}
	for _, ext := range sourceExtensions {
		if e.exists(resolved + ext) {
			return resolved + ext
		}
	}
	if e.exists(path.Join(resolved, "index.ts")) {
		return path.Join(resolved, "index.ts")
	}
	if e.exists(path.Join(resolved, "index.js")) {
		return path.Join(resolved, "index.js")
	}
	return resolved
}

func (e *ImportExpander) exists(rel string) bool {
	info, err := os.Stat(path.Join(e.workspace, rel))
	return err == nil && !info.IsDir()
}
