package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/graphcrawl/internal/config"
	"github.com/nao1215/graphcrawl/internal/model"
)

// State is the orchestration state of one crawl invocation.
// Transitions are linear: Initializing -> Validating -> Crawling -> one of
// {Completed, Failed, Skipped}. Validating can short-circuit to Skipped.
type State string

// Orchestration states.
const (
	// StateInitializing records the start instant and builds the arena.
	StateInitializing State = "initializing"
	// StateValidating runs the caller-supplied precondition.
	StateValidating State = "validating"
	// StateCrawling runs the bounded BFS traversal.
	StateCrawling State = "crawling"
	// StateCompleted is the terminal state of a successful crawl.
	StateCompleted State = "completed"
	// StateFailed is the terminal state after a circuit break or internal error.
	StateFailed State = "failed"
	// StateSkipped is the terminal state when the precondition rejected the crawl.
	StateSkipped State = "skipped"
)

// Executor sequences one crawl: validation, traversal, exception handling,
// and result construction. It holds only immutable collaborators (config,
// expander, logger), so a single Executor safely serves concurrent Execute
// calls; all mutable state lives in the per-call arena.
type Executor struct {
	cfg      *config.Config
	expander Expander

	// nodeType is the type label stamped on emitted nodes.
	// Defaults to a label derived from the configured scope.
	nodeType string

	// canRun is the host-supplied precondition (e.g. workspace existence).
	// nil means "always runnable".
	canRun func() bool

	// metadata is copied into every result this executor produces.
	metadata map[string]string

	logger *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithNodeType overrides the node type label derived from the scope.
func WithNodeType(label string) ExecutorOption {
	return func(e *Executor) {
		e.nodeType = label
	}
}

// WithPrecondition sets the host-supplied CanRun check. When it returns
// false, Execute transitions directly to Skipped and the traversal is never
// entered.
func WithPrecondition(canRun func() bool) ExecutorOption {
	return func(e *Executor) {
		e.canRun = canRun
	}
}

// WithMetadata attaches caller-visible context to every result.
func WithMetadata(metadata map[string]string) ExecutorOption {
	return func(e *Executor) {
		e.metadata = metadata
	}
}

// WithExecutorLogger sets a custom logger. If not set, slog.Default is used.
// The engine only logs when the configuration enables verbose mode.
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an Executor for the given validated configuration and
// expansion callback.
func NewExecutor(cfg *config.Config, expander Expander, opts ...ExecutorOption) *Executor {
	e := &Executor{
		cfg:      cfg,
		expander: expander,
		nodeType: defaultNodeType(cfg.Scope),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Execute runs one bounded crawl from origin and always produces exactly one
// CrawlResult, whatever path the crawl takes.
//
// The error return is non-nil in two cases only:
//   - a pre-crawl caller bug (empty origin, nil expander): no result exists
//   - a failed precondition: the skipped result is returned together with
//     ErrPreconditionFailed
//
// Circuit breaks and unexpected traversal errors do NOT surface as returned
// errors; they are downgraded into a Failed result carrying partial nodes and
// edges, because partial success is this engine's normal operating mode.
func (e *Executor) Execute(ctx context.Context, origin string) (*model.CrawlResult, error) {
	// Initializing
	start := time.Now()

	if origin == "" {
		return nil, ErrEmptyOrigin
	}
	if e.expander == nil {
		return nil, ErrNilExpander
	}

	result := model.NewCrawlResult(e.cfg.Scope, origin)
	result.Timestamp = start
	result.Metadata["node_type"] = e.nodeType
	for k, v := range e.metadata {
		result.Metadata[k] = v
	}

	monitor := NewSafetyMonitor(e.cfg)

	// Validating
	if e.canRun != nil && !e.canRun() {
		result.Status = model.StatusSkipped
		result.Errors = append(result.Errors, ErrPreconditionFailed.Error())
		e.finish(result, monitor, start, StateSkipped)
		return result, ErrPreconditionFailed
	}

	// Crawling
	if e.cfg.Verbose {
		e.logger.Debug("starting crawl",
			"origin", origin,
			"scope", e.cfg.Scope.String(),
			"max_depth", e.cfg.MaxDepth,
			"max_breadth", e.cfg.MaxBreadth,
		)
	}

	t := newTraversal(e.cfg, monitor, e.expander, e.nodeType, e.logger)
	err := e.crawl(ctx, t, origin)

	result.Nodes = t.nodes
	result.Edges = t.edges
	result.Warnings = t.warnings
	result.SkippedPaths = t.skipped
	result.Safety = t.metrics

	var state State
	var cbErr *CircuitBreakerError
	switch {
	case err == nil:
		state = StateCompleted
		result.Status = model.StatusCompleted
	case errors.As(err, &cbErr):
		state = StateFailed
		result.Status = model.StatusFailed
		result.Safety.CircuitBreakerTriggered = true
		result.Errors = append(result.Errors, cbErr.Error())
	default:
		// Unexpected errors (ctx cancellation, expander panics) are caught
		// at this top layer: the caller is never crashed by one bad crawl.
		state = StateFailed
		result.Status = model.StatusFailed
		result.Errors = append(result.Errors, err.Error())
	}

	e.finish(result, monitor, start, state)
	return result, nil
}

// crawl runs the traversal, converting a panicking expansion callback into an
// ordinary error. Expanders are third-party code to this engine; a panic in
// one crawl must not take down the host process or sibling crawls.
func (e *Executor) crawl(ctx context.Context, t *traversal, origin string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("expansion callback panicked: %v", r)
		}
	}()
	return t.run(ctx, origin)
}

// finish freezes the safety metrics and seals the result.
// The memory peak is sampled at least once even on early-exit paths, and the
// serialized duration and peak are rounded to two decimal places.
func (e *Executor) finish(result *model.CrawlResult, monitor *SafetyMonitor, start time.Time, state State) {
	monitor.Sample()
	result.Safety.MemoryPeakMB = model.Round2(monitor.PeakMB())
	result.DurationSeconds = model.Round2(time.Since(start).Seconds())

	if e.cfg.Verbose {
		e.logger.Debug("crawl finished",
			"origin", result.Origin,
			"state", string(state),
			"nodes", len(result.Nodes),
			"edges", len(result.Edges),
			"depth_reached", result.Safety.DepthReached,
			"duration_seconds", result.DurationSeconds,
		)
	}
}

// defaultNodeType maps a scope to the label stamped on its nodes.
func defaultNodeType(scope model.Scope) string {
	switch scope {
	case model.ScopeViewStructure:
		return "view"
	case model.ScopeDatabaseSchema:
		return "table"
	case model.ScopeCodeDependencies:
		return "module"
	case model.ScopeEventFlow:
		return "event"
	case model.ScopeAPIEndpoints:
		return "endpoint"
	default:
		return "node"
	}
}
