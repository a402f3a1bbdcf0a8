package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/graphcrawl/internal/model"
)

// Default configuration values.
// These bounds are deliberately conservative: a crawl that needs more room
// should be reconfigured explicitly rather than growing by accident.
const (
	// DefaultMaxDepth limits the BFS radius around the origin. Three hops is
	// enough to answer "what does this element touch" questions without
	// pulling in half of a monolithic codebase.
	DefaultMaxDepth = 3

	// DefaultMaxBreadth caps the children kept per node. Wide nodes (a barrel
	// module, a god table) are truncated deterministically to the first ten
	// children in callback order.
	DefaultMaxBreadth = 10

	// DefaultTimeout is the wall-clock budget for one crawl. Expansion
	// callbacks may perform file or database I/O, so 30 seconds covers
	// typical workspaces while keeping a runaway crawl short-lived.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxFiles caps the number of nodes expanded in one crawl.
	// This is the primary defense against infinitely-generating graphs.
	DefaultMaxFiles = 50

	// DefaultMaxMemoryMB is the resident memory ceiling sampled once per
	// BFS dequeue. 500MB leaves generous headroom for host processes that
	// embed the crawler.
	DefaultMaxMemoryMB = 500

	// DefaultMaxResultSizeMB bounds the serialized report size.
	DefaultMaxResultSizeMB = 5

	// AppName is the application name used for XDG directory paths.
	AppName = "graphcrawl"
)

// DefaultSkipPatterns are the case-insensitive patterns applied to every
// discovered child identifier unless the caller overrides them. They cover
// the identifier shapes that most commonly leak credentials out of a
// codebase graph (column names, config keys, environment variables).
func DefaultSkipPatterns() []string {
	return []string{
		"password",
		"secret",
		"token",
		"api[_-]?key",
		"connection[_-]?string",
		"credential",
	}
}

// Config holds the validated, immutable parameters for one bounded crawl.
// Build it once per request with New; it is never mutated afterward, so a
// single Config may safely back multiple concurrent crawls.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., BoundsConfig, PrivacyConfig) for simplicity, following the same
// reasoning as the rest of this codebase: the number of options is
// manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// MaxDepth is the maximum BFS depth expanded beyond the origin.
	// Depth 0 means only the origin node is emitted.
	MaxDepth int

	// MaxBreadth is the maximum number of children kept per node.
	// Extra children are truncated in callback-return order.
	MaxBreadth int

	// Timeout is the wall-clock budget for the whole crawl.
	// Checked by the safety monitor once per BFS dequeue.
	Timeout time.Duration

	// MaxFiles is the maximum number of nodes expanded before the
	// file-limit circuit breaker trips.
	MaxFiles int

	// MaxMemoryMB is the resident memory ceiling in megabytes.
	MaxMemoryMB int

	// Scope selects the kind of relationship graph being explored and
	// therefore which expansion adapter is semantically valid.
	Scope model.Scope

	// FollowImports enables import-edge expansion for adapters that
	// distinguish imports from other relationships.
	FollowImports bool

	// FollowCalls enables call-edge expansion. Off by default because call
	// graphs fan out far faster than import graphs.
	FollowCalls bool

	// FollowDBForeignKeys enables foreign-key expansion for schema crawls.
	FollowDBForeignKeys bool

	// SkipPatterns are the privacy redaction patterns, matched
	// case-insensitively against every discovered child identifier.
	SkipPatterns []string

	// Verbose enables detailed structured logging during the crawl.
	Verbose bool

	// MaxResultSizeMB bounds the serialized report size in megabytes.
	MaxResultSizeMB int

	// compiled holds the skip patterns compiled with case-insensitive
	// matching. Populated once by New; never modified afterward.
	compiled []*regexp.Regexp
}

// Option configures a Config during construction.
// This follows the functional options pattern used throughout graphcrawl.
type Option func(*Config)

// WithMaxDepth sets the maximum BFS depth.
func WithMaxDepth(depth int) Option {
	return func(c *Config) { c.MaxDepth = depth }
}

// WithMaxBreadth sets the maximum children kept per node.
func WithMaxBreadth(breadth int) Option {
	return func(c *Config) { c.MaxBreadth = breadth }
}

// WithTimeout sets the wall-clock budget for the crawl.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithMaxFiles sets the node/file expansion ceiling.
func WithMaxFiles(n int) Option {
	return func(c *Config) { c.MaxFiles = n }
}

// WithMaxMemoryMB sets the resident memory ceiling in megabytes.
func WithMaxMemoryMB(n int) Option {
	return func(c *Config) { c.MaxMemoryMB = n }
}

// WithScope sets the crawl scope.
func WithScope(scope model.Scope) Option {
	return func(c *Config) { c.Scope = scope }
}

// WithFollowImports toggles import-edge expansion.
func WithFollowImports(follow bool) Option {
	return func(c *Config) { c.FollowImports = follow }
}

// WithFollowCalls toggles call-edge expansion.
func WithFollowCalls(follow bool) Option {
	return func(c *Config) { c.FollowCalls = follow }
}

// WithFollowDBForeignKeys toggles foreign-key expansion.
func WithFollowDBForeignKeys(follow bool) Option {
	return func(c *Config) { c.FollowDBForeignKeys = follow }
}

// WithSkipPatterns replaces the default privacy skip patterns.
// Pass an empty slice to disable privacy filtering entirely; the defaults
// are only applied when this option is not used.
func WithSkipPatterns(patterns []string) Option {
	return func(c *Config) { c.SkipPatterns = patterns }
}

// WithVerbose toggles detailed structured logging.
func WithVerbose(verbose bool) Option {
	return func(c *Config) { c.Verbose = verbose }
}

// WithMaxResultSizeMB sets the serialized report size budget in megabytes.
func WithMaxResultSizeMB(n int) Option {
	return func(c *Config) { c.MaxResultSizeMB = n }
}

// New creates a Config by overlaying the given options on the documented
// defaults, then validating the merged result and compiling the skip
// patterns. Construction is pure: no I/O, no side effects.
//
// It returns a configuration error (see errors.go) if the scope is
// unrecognized, any bound is out of range, or any skip pattern fails to
// compile. No crawl can start from an invalid configuration.
func New(opts ...Option) (*Config, error) {
	c := &Config{
		MaxDepth:            DefaultMaxDepth,
		MaxBreadth:          DefaultMaxBreadth,
		Timeout:             DefaultTimeout,
		MaxFiles:            DefaultMaxFiles,
		MaxMemoryMB:         DefaultMaxMemoryMB,
		Scope:               model.ScopeViewStructure,
		FollowImports:       true,
		FollowCalls:         false,
		FollowDBForeignKeys: true,
		SkipPatterns:        DefaultSkipPatterns(),
		MaxResultSizeMB:     DefaultMaxResultSizeMB,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.compilePatterns(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks that every bound is in range and the scope is known.
//
// Design decision: We return the first error found rather than collecting
// all errors because fixing one error often makes others irrelevant, and
// callers re-issue a fresh configuration anyway.
func (c *Config) Validate() error {
	if !c.Scope.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidScope, c.Scope)
	}
	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if c.MaxBreadth <= 0 {
		return ErrInvalidMaxBreadth
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxFiles <= 0 {
		return ErrInvalidMaxFiles
	}
	if c.MaxMemoryMB <= 0 {
		return ErrInvalidMaxMemory
	}
	if c.MaxResultSizeMB <= 0 {
		return ErrInvalidMaxResultSize
	}
	return nil
}

// compilePatterns compiles every skip pattern with case-insensitive matching.
// Patterns are applied to lower-cased identifiers as well, but (?i) keeps the
// behavior correct even when a pattern contains literal upper-case characters.
func (c *Config) compilePatterns() error {
	c.compiled = make([]*regexp.Regexp, 0, len(c.SkipPatterns))
	for _, pattern := range c.SkipPatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidSkipPattern, pattern, err)
		}
		c.compiled = append(c.compiled, re)
	}
	return nil
}

// CompiledSkipPatterns returns the compiled privacy patterns in the order
// they were configured. The returned slice must not be modified.
func (c *Config) CompiledSkipPatterns() []*regexp.Regexp {
	return c.compiled
}

// XDGDataDir returns the XDG data directory for graphcrawl.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/graphcrawl
// On macOS: ~/Library/Application Support/graphcrawl
// On Windows: %LOCALAPPDATA%\graphcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for graphcrawl.
// On Linux: ~/.config/graphcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
