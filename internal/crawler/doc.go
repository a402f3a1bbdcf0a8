// Package crawler implements the bounded, task-scoped crawl engine.
//
// # Architecture
//
// The engine explores a relationship graph breadth-first from a single origin
// id, calling a caller-supplied Expander to list each node's children. It is
// deliberately scope-agnostic: the same loop crawls view trees, foreign-key
// graphs, import graphs, event flows, and endpoint maps, depending only on
// which Expander the caller injects.
//
// # Components
//
//   - Executor: The orchestration state machine sequencing validation,
//     traversal, error handling, and result assembly
//   - SafetyMonitor: Timeout, node-count, and memory circuit breakers,
//     checked once per BFS dequeue
//   - PrivacyFilter: Pattern-based redaction of sensitive-looking child
//     identifiers, with every skip recorded in the result
//   - visitedSet: Per-crawl cycle prevention
//   - BatchRunner: Concurrent execution of independent crawls
//
// # Safety model
//
// Each crawl runs single-threaded to completion or abort; deterministic
// ordering, precise breaker timing, and privacy auditing all depend on one
// sequential walk. Every Execute call builds a fresh crawl-scoped arena
// (visited set, metrics, result buffers), so multiple crawls may run
// concurrently with zero shared mutable state and no locking.
//
// The internal timeout breaker only runs between BFS steps. An expansion
// callback that hangs indefinitely can therefore defeat it; callers should
// wrap Execute with a context deadline as a second line of defense.
//
// # Failure semantics
//
// A tripped circuit breaker aborts the crawl but preserves everything
// gathered so far: the result reports partial nodes and edges with
// CircuitBreakerTriggered set. Per-node expansion failures become warnings
// and never sink the crawl. The engine never retries; callers re-issue a
// fresh, reconfigured crawl if needed.
package crawler
