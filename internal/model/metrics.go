package model

import "math"

// SafetyMetrics captures the bounding telemetry for one crawl.
// The traversal engine mutates these incrementally and freezes them when the
// BFS loop exits by any path (success, radius exhaustion, or circuit break).
type SafetyMetrics struct {
	// DepthReached is the deepest BFS depth at which a node was emitted.
	DepthReached int `json:"depth_reached"`

	// FilesAnalyzed is the number of nodes dequeued and expanded.
	FilesAnalyzed int `json:"files_analyzed"`

	// MemoryPeakMB is the highest resident memory sample observed during the
	// crawl, in megabytes, rounded to two decimal places at freeze time.
	MemoryPeakMB float64 `json:"memory_peak_mb"`

	// CircuitBreakerTriggered is true if the crawl was aborted by the
	// SafetyMonitor (timeout, file limit, or memory ceiling).
	CircuitBreakerTriggered bool `json:"circuit_breaker_triggered"`

	// RadiusLimitHit is true if the crawl reached the configured maximum
	// depth, meaning deeper nodes may exist but were not expanded.
	RadiusLimitHit bool `json:"radius_limit_hit"`
}

// Round2 rounds a value to two decimal places.
// Used for the serialized duration and memory peak so that reports are stable
// across runs and easy to compare in diffs.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
