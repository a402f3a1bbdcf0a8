package config

import "errors"

// Configuration validation errors.
// These errors are returned by New and Validate and provide specific
// information about what is wrong with the requested crawl bounds.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at each validation site. This allows callers
// to use errors.Is() for programmatic error handling while still providing
// human-readable messages. Every error here is raised before any traversal
// work begins; the engine never starts a crawl with an invalid configuration.
var (
	// ErrInvalidScope is returned when the crawl scope is not one of the
	// enumerated task scopes.
	ErrInvalidScope = errors.New("invalid scope: must be one of the known crawl scopes")

	// ErrInvalidMaxDepth is returned when the maximum depth is negative.
	// Depth 0 is valid and means "emit the origin only".
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidMaxBreadth is returned when the breadth limit is not positive.
	// A breadth of zero would silently discard every discovered child.
	ErrInvalidMaxBreadth = errors.New("invalid max breadth: must be positive")

	// ErrInvalidTimeout is returned when the crawl timeout is not positive.
	// A zero timeout would trip the circuit breaker on the first dequeue.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxFiles is returned when the node/file ceiling is not positive.
	ErrInvalidMaxFiles = errors.New("invalid max files: must be positive")

	// ErrInvalidMaxMemory is returned when the memory ceiling is not positive.
	ErrInvalidMaxMemory = errors.New("invalid max memory: must be positive")

	// ErrInvalidMaxResultSize is returned when the result size budget is not positive.
	ErrInvalidMaxResultSize = errors.New("invalid max result size: must be positive")

	// ErrInvalidSkipPattern is returned when a privacy skip pattern does not
	// compile as a regular expression. The offending pattern is wrapped into
	// the returned error message.
	ErrInvalidSkipPattern = errors.New("invalid skip pattern")
)
