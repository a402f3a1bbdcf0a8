package config

import "time"

// ScopeConfig holds per-scope overrides loaded from the .graphcrawl file.
// This lets users give schema crawls a deeper radius than view crawls, or
// extend the skip patterns for a scope that touches credential-heavy names,
// without repeating flags on every invocation.
//
// Zero values mean "no override"; the documented defaults (or CLI flags)
// apply. Skip patterns are the exception: a non-empty list replaces the
// defaults outright so that users can both extend and shrink the set.
type ScopeConfig struct {
	// MaxDepth overrides the BFS radius for this scope.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// MaxBreadth overrides the per-node child limit for this scope.
	MaxBreadth int `yaml:"max_breadth,omitempty"`

	// TimeoutSeconds overrides the wall-clock budget for this scope.
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// MaxFiles overrides the node expansion ceiling for this scope.
	MaxFiles int `yaml:"max_files,omitempty"`

	// MaxMemoryMB overrides the memory ceiling for this scope.
	MaxMemoryMB int `yaml:"max_memory_mb,omitempty"`

	// SkipPatterns replaces the privacy skip patterns for this scope.
	SkipPatterns []string `yaml:"skip_patterns,omitempty"`
}

// File represents the structure of the .graphcrawl configuration file.
type File struct {
	// Defaults contains overrides applied to every scope unless a
	// scope-specific entry overrides them again.
	Defaults ScopeConfig `yaml:"defaults,omitempty"`

	// Scopes maps scope names (e.g. "code_dependencies") to their overrides.
	Scopes map[string]ScopeConfig `yaml:"scopes,omitempty"`
}

// GetScopeConfig returns the merged configuration for a scope name:
// file defaults first, then the scope-specific entry on top.
func (cf *File) GetScopeConfig(scope string) ScopeConfig {
	result := cf.Defaults

	if sc, ok := cf.Scopes[scope]; ok {
		if sc.MaxDepth != 0 {
			result.MaxDepth = sc.MaxDepth
		}
		if sc.MaxBreadth != 0 {
			result.MaxBreadth = sc.MaxBreadth
		}
		if sc.TimeoutSeconds != 0 {
			result.TimeoutSeconds = sc.TimeoutSeconds
		}
		if sc.MaxFiles != 0 {
			result.MaxFiles = sc.MaxFiles
		}
		if sc.MaxMemoryMB != 0 {
			result.MaxMemoryMB = sc.MaxMemoryMB
		}
		if len(sc.SkipPatterns) > 0 {
			result.SkipPatterns = sc.SkipPatterns
		}
	}

	return result
}

// Options converts the overrides into construction options for New.
// Zero-valued fields contribute nothing, so defaults and CLI flags keep
// their precedence.
func (sc ScopeConfig) Options() []Option {
	opts := make([]Option, 0, 6)
	if sc.MaxDepth != 0 {
		opts = append(opts, WithMaxDepth(sc.MaxDepth))
	}
	if sc.MaxBreadth != 0 {
		opts = append(opts, WithMaxBreadth(sc.MaxBreadth))
	}
	if sc.TimeoutSeconds != 0 {
		opts = append(opts, WithTimeout(time.Duration(sc.TimeoutSeconds)*time.Second))
	}
	if sc.MaxFiles != 0 {
		opts = append(opts, WithMaxFiles(sc.MaxFiles))
	}
	if sc.MaxMemoryMB != 0 {
		opts = append(opts, WithMaxMemoryMB(sc.MaxMemoryMB))
	}
	if len(sc.SkipPatterns) > 0 {
		opts = append(opts, WithSkipPatterns(sc.SkipPatterns))
	}
	return opts
}
