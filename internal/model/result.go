package model

import "time"

// Status is the terminal state of one crawl.
type Status string

// Crawl status constants.
const (
	// StatusCompleted means the crawl ran to natural or radius-bounded completion.
	StatusCompleted Status = "completed"

	// StatusFailed means the crawl was aborted by a circuit breaker or an
	// unexpected internal error. Partial nodes and edges are still reported.
	StatusFailed Status = "failed"

	// StatusSkipped means a precondition check failed and the crawl never started.
	StatusSkipped Status = "skipped"
)

// String returns the string representation of the Status.
func (s Status) String() string {
	return string(s)
}

// ExitCode maps the status to the CLI exit code contract:
// 0 for completed (even if radius-bounded), 1 for failed, 2 for skipped.
func (s Status) ExitCode() int {
	switch s {
	case StatusCompleted:
		return 0
	case StatusSkipped:
		return 2
	default:
		return 1
	}
}

// CrawlResult is the immutable report produced by every crawl invocation.
// It is assembled exactly once, after the traversal ends by any path, and
// never mutated afterward.
//
// Design decision: We use a single flat struct with a SafetyMetrics sub-struct
// rather than separate success/failure result types. Partial failure is the
// normal mode of operation for a bounded crawler, so every result carries the
// same shape and the flags (Status, CircuitBreakerTriggered, RadiusLimitHit)
// tell the caller what happened.
type CrawlResult struct {
	// Scope is the kind of relationship graph that was explored.
	Scope Scope `json:"scope"`

	// Origin is the starting node id.
	Origin string `json:"origin"`

	// Timestamp is when the crawl started (serialized as ISO-8601 / RFC 3339).
	Timestamp time.Time `json:"timestamp"`

	// DurationSeconds is the wall-clock crawl duration, rounded to two
	// decimal places.
	DurationSeconds float64 `json:"duration_seconds"`

	// Nodes contains every emitted node, in discovery (BFS) order.
	// len(Nodes) always equals the size of the crawl's visited set.
	Nodes []Node `json:"nodes"`

	// Edges contains every observed adjacency, serialized as
	// [from, to, relationship_type] triples.
	Edges []Edge `json:"edges"`

	// Metadata carries caller-visible context such as the node type label
	// and the workspace the expansion adapter operated on.
	Metadata map[string]string `json:"metadata,omitempty"`

	// Safety contains the frozen bounding telemetry.
	Safety SafetyMetrics `json:"safety_metrics"`

	// Warnings lists non-fatal events: per-node expansion failures,
	// breadth-limit truncations, and privacy redactions.
	Warnings []string `json:"warnings"`

	// SkippedPaths lists node ids excluded by the privacy filter.
	// Every privacy skip is observable here; silent drops are disallowed.
	SkippedPaths []string `json:"skipped_paths"`

	// Errors lists fatal error messages for failed or skipped crawls.
	Errors []string `json:"errors,omitempty"`

	// Status is the terminal state of the crawl.
	Status Status `json:"status"`
}

// NewCrawlResult creates an empty result shell for the given scope and origin.
// Slices are allocated eagerly so the JSON output contains [] rather than
// null even for crawls that never ran.
func NewCrawlResult(scope Scope, origin string) *CrawlResult {
	return &CrawlResult{
		Scope:        scope,
		Origin:       origin,
		Timestamp:    time.Now(),
		Nodes:        make([]Node, 0),
		Edges:        make([]Edge, 0),
		Metadata:     make(map[string]string),
		Warnings:     make([]string, 0),
		SkippedPaths: make([]string, 0),
		Status:       StatusSkipped,
	}
}

// NodeIDs returns the ids of all emitted nodes in discovery order.
// Convenience accessor used by reports and tests.
func (r *CrawlResult) NodeIDs() []string {
	ids := make([]string, len(r.Nodes))
	for i, n := range r.Nodes {
		ids[i] = n.ID
	}
	return ids
}

// HasNode reports whether the given id was emitted as a node.
func (r *CrawlResult) HasNode(id string) bool {
	for _, n := range r.Nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// HasEdge reports whether the given adjacency was recorded.
func (r *CrawlResult) HasEdge(from, to string) bool {
	for _, e := range r.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}
