package crawler

import (
	"errors"
	"fmt"
)

// Pre-crawl errors.
// These are the only conditions under which Execute returns no result:
// they are caller bugs detectable before any traversal work starts.
var (
	// ErrEmptyOrigin is returned when the origin id is empty.
	ErrEmptyOrigin = errors.New("empty origin: a crawl needs a starting node id")

	// ErrNilExpander is returned when no expansion callback was supplied.
	ErrNilExpander = errors.New("nil expander: a crawl needs an expansion callback")

	// ErrPreconditionFailed is returned alongside a skipped result when the
	// caller-supplied CanRun precondition rejects the crawl.
	ErrPreconditionFailed = errors.New("crawl precondition failed")
)

// BreakReason identifies which circuit breaker tripped.
type BreakReason string

// Circuit breaker reasons.
const (
	// BreakTimeout means the wall-clock budget was exhausted.
	BreakTimeout BreakReason = "timeout"

	// BreakFileLimit means the node/file expansion ceiling was exceeded.
	BreakFileLimit BreakReason = "file_limit"

	// BreakMemory means the resident memory ceiling was exceeded.
	BreakMemory BreakReason = "memory"
)

// CircuitBreakerError is raised mid-crawl by the SafetyMonitor when a
// resource threshold is exceeded. It is fatal to the current crawl only:
// the Executor catches it, marks the result failed, and preserves whatever
// nodes and edges were gathered before the breach. It is never retried.
type CircuitBreakerError struct {
	// Reason identifies the breaker that tripped.
	Reason BreakReason

	// Measured is the observed value at trip time (seconds, nodes, or MB
	// depending on Reason).
	Measured float64

	// Limit is the configured threshold that was exceeded.
	Limit float64
}

// Error implements the error interface.
func (e *CircuitBreakerError) Error() string {
	var unit string
	switch e.Reason {
	case BreakTimeout:
		unit = "s"
	case BreakMemory:
		unit = "MB"
	case BreakFileLimit:
		unit = " nodes"
	}
	return fmt.Sprintf("circuit breaker tripped (%s): measured %.2f%s, limit %.2f%s",
		e.Reason, e.Measured, unit, e.Limit, unit)
}

// ExpansionError wraps a failure from the caller-supplied expansion callback.
// It is caught per-node inside the traversal and converted into a warning;
// one bad node cannot sink an entire crawl.
type ExpansionError struct {
	// NodeID is the node whose expansion failed.
	NodeID string

	// Err is the underlying callback error.
	Err error
}

// Error implements the error interface. The message doubles as the warning
// text recorded in the crawl result.
func (e *ExpansionError) Error() string {
	return fmt.Sprintf("Failed children of %s: %v", e.NodeID, e.Err)
}

// Unwrap returns the underlying callback error for errors.Is/As chains.
func (e *ExpansionError) Unwrap() error {
	return e.Err
}
