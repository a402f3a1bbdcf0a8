package expand

import (
	"context"
	"os"
	"path"
	"strings"
)

// ignoredDirs are directory names that never contribute structural insight
// and routinely explode the breadth of a crawl.
var ignoredDirs = map[string]struct{}{
	".git":         {},
	".hg":          {},
	".svn":         {},
	"node_modules": {},
	"vendor":       {},
	"__pycache__":  {},
}

// DirectoryExpander walks a workspace's directory tree. Node ids are
// slash-separated paths relative to the workspace root; the origin "." stands
// for the root itself. A file is a leaf; a directory's children are its
// entries in the deterministic order the filesystem reports them.
type DirectoryExpander struct {
	workspace string
}

// NewDirectoryExpander creates an expander rooted at workspace.
func NewDirectoryExpander(workspace string) *DirectoryExpander {
	return &DirectoryExpander{workspace: workspace}
}

// GetChildren implements crawler.Expander.
//
// os.ReadDir returns entries sorted by name, which keeps repeated crawls of
// an unchanged workspace byte-identical. Hidden entries and well-known junk
// directories are filtered out before the engine ever sees them.
func (d *DirectoryExpander) GetChildren(ctx context.Context, nodeID string, _ int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full := d.workspace
	if nodeID != "." && nodeID != "" {
		full = path.Join(d.workspace, nodeID)
	}

	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}

	children := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if _, junk := ignoredDirs[name]; junk {
			continue
		}
		if nodeID == "." || nodeID == "" {
			children = append(children, name)
		} else {
			children = append(children, path.Join(nodeID, name))
		}
	}
	return children, nil
}
