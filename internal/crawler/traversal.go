package crawler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nao1215/graphcrawl/internal/config"
	"github.com/nao1215/graphcrawl/internal/model"
)

// Expander lists the children of one node. It is the single injection point
// for scope-specific graph logic: a UI-tree walker, a foreign-key walker, an
// import-graph walker. The engine treats it as opaque and possibly failing.
//
// Implementations may perform I/O; they sit on the critical path of every
// BFS dequeue and should honor ctx cancellation.
type Expander interface {
	// GetChildren returns the ids adjacent to nodeID at the given depth.
	// Returning an error fails only this node: the engine records a warning
	// and keeps crawling.
	GetChildren(ctx context.Context, nodeID string, depth int) ([]string, error)
}

// ExpanderFunc adapts a plain function to the Expander interface.
type ExpanderFunc func(ctx context.Context, nodeID string, depth int) ([]string, error)

// GetChildren implements Expander.
func (f ExpanderFunc) GetChildren(ctx context.Context, nodeID string, depth int) ([]string, error) {
	return f(ctx, nodeID, depth)
}

// queueItem is one frontier entry of the BFS.
type queueItem struct {
	id    string
	depth int
}

// traversal is the crawl-scoped arena for one BFS run: frontier, visited set,
// result buffers, and safety telemetry. A fresh traversal is created inside
// every Execute call, which is what makes concurrent crawls lock-free.
type traversal struct {
	cfg      *config.Config
	monitor  *SafetyMonitor
	filter   *PrivacyFilter
	visited  *visitedSet
	expander Expander
	logger   *slog.Logger

	// nodeType is the uniform type label stamped on every emitted node.
	nodeType string

	nodes    []model.Node
	edges    []model.Edge
	warnings []string
	skipped  []string
	metrics  model.SafetyMetrics
}

// newTraversal builds the arena for one crawl. The privacy filter is wired to
// record skips directly into this arena's warning and skipped-path buffers.
func newTraversal(cfg *config.Config, monitor *SafetyMonitor, expander Expander, nodeType string, logger *slog.Logger) *traversal {
	t := &traversal{
		cfg:      cfg,
		monitor:  monitor,
		visited:  newVisitedSet(),
		expander: expander,
		logger:   logger,
		nodeType: nodeType,
		nodes:    make([]model.Node, 0),
		edges:    make([]model.Edge, 0),
		warnings: make([]string, 0),
		skipped:  make([]string, 0),
	}

	t.filter = NewPrivacyFilter(cfg, func(id, pattern string) {
		t.skipped = append(t.skipped, id)
		t.warnings = append(t.warnings, fmt.Sprintf("Skipped sensitive identifier %s (pattern %q)", id, pattern))
		if cfg.Verbose {
			t.logger.Debug("privacy filter skipped child", "node", id, "pattern", pattern)
		}
	})

	return t
}

// run explores the graph breadth-first from origin.
//
// Termination is one of:
//   - natural: the frontier empties
//   - abnormal: a *CircuitBreakerError or ctx error propagates; everything
//     gathered so far stays in the arena for the Executor to report
//   - radius-bounded: nodes at the depth boundary are not expanded and
//     RadiusLimitHit records whether that dropped anything
//
// Ordering is strict breadth order; ties at the same depth preserve callback
// return order, truncated (never re-sorted) at the breadth limit. The design
// goal is "stay close to the origin", not farthest-first exploration.
func (t *traversal) run(ctx context.Context, origin string) error {
	queue := make([]queueItem, 0, t.cfg.MaxBreadth)
	queue = append(queue, queueItem{id: origin, depth: 0})
	t.visited.Visit(origin)
	t.emit(origin, 0)

	for len(queue) > 0 {
		// ctx is the caller's second line of defense around slow expanders;
		// the internal timeout breaker is checked right after.
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.monitor.Check(t.metrics.FilesAnalyzed); err != nil {
			return err
		}

		item := queue[0]
		queue = queue[1:]

		t.metrics.FilesAnalyzed++
		if item.depth > t.metrics.DepthReached {
			t.metrics.DepthReached = item.depth
		}

		if item.depth >= t.cfg.MaxDepth {
			// Radius boundary: the loop keeps draining shallower frontier
			// items, and BFS guarantees nothing deeper is queued.
			t.probeBoundary(ctx, item)
			continue
		}

		children, err := t.expander.GetChildren(ctx, item.id, item.depth)
		if err != nil {
			t.warn((&ExpansionError{NodeID: item.id, Err: err}).Error())
			continue
		}

		if len(children) > t.cfg.MaxBreadth {
			t.warn(fmt.Sprintf("Breadth limit at %s: kept first %d of %d children", item.id, t.cfg.MaxBreadth, len(children)))
			children = children[:t.cfg.MaxBreadth]
		}

		for _, child := range children {
			if t.filter.ShouldSkip(child) {
				// No edge toward a skipped child; the skip itself is already
				// recorded via the filter callback.
				continue
			}

			// Edges reflect true adjacency, so an edge is recorded even when
			// the child was visited before. The node list still holds each
			// id only once.
			t.edges = append(t.edges, model.Edge{
				From:         item.id,
				To:           child,
				Relationship: model.RelationshipReferences,
			})

			if t.visited.Visit(child) {
				t.emit(child, item.depth+1)
				queue = append(queue, queueItem{id: child, depth: item.depth + 1})
			}
		}

		if t.cfg.Verbose {
			t.logger.Debug("expanded node",
				"node", item.id,
				"depth", item.depth,
				"children", len(children),
				"frontier", len(queue),
			)
		}
	}

	return nil
}

// probeBoundary checks whether a node at the radius boundary has children the
// depth limit is dropping. The probe records no nodes and no edges; its only
// output is the RadiusLimitHit flag, so a frontier that is naturally
// exhausted at the boundary does not report a false radius hit.
//
// Once the flag is set further probes are skipped, sparing the expansion
// callback's I/O on wide boundary frontiers.
func (t *traversal) probeBoundary(ctx context.Context, item queueItem) {
	if t.metrics.RadiusLimitHit {
		return
	}

	children, err := t.expander.GetChildren(ctx, item.id, item.depth)
	if err != nil {
		t.warn((&ExpansionError{NodeID: item.id, Err: err}).Error())
		return
	}

	if len(children) > 0 {
		t.metrics.RadiusLimitHit = true
		if t.cfg.Verbose {
			t.logger.Debug("radius limit dropped children",
				"node", item.id,
				"depth", item.depth,
				"dropped", len(children),
			)
		}
	}
}

// emit appends a node to the result buffer.
func (t *traversal) emit(id string, depth int) {
	t.nodes = append(t.nodes, model.Node{ID: id, Type: t.nodeType, Depth: depth})
}

// warn appends a warning and mirrors it to the verbose log.
func (t *traversal) warn(msg string) {
	t.warnings = append(t.warnings, msg)
	if t.cfg.Verbose {
		t.logger.Debug("crawl warning", "warning", msg)
	}
}
