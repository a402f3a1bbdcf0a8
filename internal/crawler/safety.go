package crawler

import (
	"runtime"
	"time"

	"github.com/nao1215/graphcrawl/internal/config"
)

// SafetyMonitor enforces the three independent circuit breakers of one crawl:
// wall-clock timeout, node/file count, and resident memory. The traversal
// calls Check once per BFS dequeue; the monitor is the only place a crawl can
// be aborted for resource reasons.
//
// Design decision: The monitor never logs and never retries. It measures,
// compares, and fails with a typed CircuitBreakerError carrying the measured
// value and the limit; how to react (preserve partial results, flag the
// report) is the Executor's job.
type SafetyMonitor struct {
	// timeout is the wall-clock budget for the crawl.
	timeout time.Duration

	// maxFiles is the node expansion ceiling.
	maxFiles int

	// maxMemoryMB is the resident memory ceiling in megabytes.
	maxMemoryMB float64

	// start is the instant the monitor (and therefore the crawl) started.
	start time.Time

	// peakMB is the running peak of memory samples.
	peakMB float64

	// now and sampleMB are swappable for tests; production uses the real
	// clock and the Go heap sample.
	now      func() time.Time
	sampleMB func() float64
}

// MonitorOption configures a SafetyMonitor.
type MonitorOption func(*SafetyMonitor)

// WithClock replaces the monitor's clock. Used in tests to trip the timeout
// breaker deterministically.
func WithClock(now func() time.Time) MonitorOption {
	return func(m *SafetyMonitor) {
		m.now = now
	}
}

// WithMemorySampler replaces the memory sampler. Used in tests to trip the
// memory breaker without actually allocating hundreds of megabytes.
func WithMemorySampler(sample func() float64) MonitorOption {
	return func(m *SafetyMonitor) {
		m.sampleMB = sample
	}
}

// NewSafetyMonitor creates a monitor for one crawl, recording the start
// instant immediately.
func NewSafetyMonitor(cfg *config.Config, opts ...MonitorOption) *SafetyMonitor {
	m := &SafetyMonitor{
		timeout:     cfg.Timeout,
		maxFiles:    cfg.MaxFiles,
		maxMemoryMB: float64(cfg.MaxMemoryMB),
		now:         time.Now,
		sampleMB:    heapAllocMB,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.start = m.now()
	return m
}

// Check verifies all three breakers in a fixed order: timeout, file count,
// memory. It returns nil on the happy path and a *CircuitBreakerError on the
// first breach. Beyond the memory sample the check is O(1).
func (m *SafetyMonitor) Check(filesAnalyzed int) error {
	elapsed := m.now().Sub(m.start)
	if elapsed > m.timeout {
		return &CircuitBreakerError{
			Reason:   BreakTimeout,
			Measured: elapsed.Seconds(),
			Limit:    m.timeout.Seconds(),
		}
	}

	if filesAnalyzed > m.maxFiles {
		return &CircuitBreakerError{
			Reason:   BreakFileLimit,
			Measured: float64(filesAnalyzed),
			Limit:    float64(m.maxFiles),
		}
	}

	if sampled := m.Sample(); sampled > m.maxMemoryMB {
		return &CircuitBreakerError{
			Reason:   BreakMemory,
			Measured: sampled,
			Limit:    m.maxMemoryMB,
		}
	}

	return nil
}

// Sample takes one memory measurement, updates the running peak, and returns
// the sampled value. The Executor calls this on early-exit paths so that
// every result carries at least one memory sample.
func (m *SafetyMonitor) Sample() float64 {
	sampled := m.sampleMB()
	if sampled > m.peakMB {
		m.peakMB = sampled
	}
	return sampled
}

// PeakMB returns the highest memory sample observed so far.
func (m *SafetyMonitor) PeakMB() float64 {
	return m.peakMB
}

// Elapsed returns the wall-clock time since the monitor started.
func (m *SafetyMonitor) Elapsed() time.Duration {
	return m.now().Sub(m.start)
}

// heapAllocMB samples the Go heap in megabytes.
// Heap allocation is a proxy for resident memory; it undercounts stacks and
// off-heap buffers but tracks the graph buffers that actually grow with a
// crawl, which is what the ceiling is there to bound.
func heapAllocMB() float64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return float64(stats.HeapAlloc) / (1024 * 1024)
}
