// Package model defines the core data structures used throughout graphcrawl.
//
// This package contains the following main types:
//   - Scope: The kind of relationship graph being explored
//   - Node, Edge: The discovered graph elements
//   - SafetyMetrics: Resource and bounding telemetry for one crawl
//   - CrawlResult: The immutable report produced by every crawl
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, report, database) need to use these
// types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
