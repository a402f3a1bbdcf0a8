// Package config provides configuration structures and utilities for graphcrawl.
// It defines the bounded-crawl parameters (depth, breadth, timeout, file and
// memory ceilings, privacy skip patterns), their documented defaults, and a
// YAML loader for per-scope overrides from a .graphcrawl file.
package config
