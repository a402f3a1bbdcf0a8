package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/graphcrawl/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether empty sections are shown.
	showEmpty bool

	// verbose enables the full node listing instead of the summary.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables the per-node listing in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result in human-readable format.
func (w *SimpleWriter) Write(result *model.CrawlResult) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, result)
	w.writeSafety(&sb, result)
	w.writeGraph(&sb, result)
	w.writeWarnings(&sb, result)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with crawl information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        GRAPHCRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Origin:     %s\n", result.Origin))
	sb.WriteString(fmt.Sprintf("Scope:      %s\n", result.Scope.String()))
	sb.WriteString(fmt.Sprintf("Crawl Date: %s\n", result.Timestamp.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:   %.2fs\n", result.DurationSeconds))

	switch {
	case result.Status == model.StatusSkipped:
		sb.WriteString("Status:     SKIPPED (precondition not met)\n")
	case result.Safety.CircuitBreakerTriggered:
		sb.WriteString("Status:     FAILED - circuit breaker (partial results)\n")
	case result.Status == model.StatusFailed:
		sb.WriteString("Status:     FAILED\n")
	default:
		sb.WriteString("Status:     Completed\n")
	}

	sb.WriteString("\n")
}

// writeSafety writes the safety metrics section.
func (w *SimpleWriter) writeSafety(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SAFETY METRICS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Depth Reached:    %d\n", result.Safety.DepthReached))
	sb.WriteString(fmt.Sprintf("  Nodes Analyzed:   %d\n", result.Safety.FilesAnalyzed))
	sb.WriteString(fmt.Sprintf("  Memory Peak:      %.2f MB\n", result.Safety.MemoryPeakMB))
	sb.WriteString(fmt.Sprintf("  Circuit Breaker:  %t\n", result.Safety.CircuitBreakerTriggered))
	sb.WriteString(fmt.Sprintf("  Radius Limit Hit: %t\n", result.Safety.RadiusLimitHit))
	sb.WriteString("\n")
}

// writeGraph writes the discovered graph section.
func (w *SimpleWriter) writeGraph(sb *strings.Builder, result *model.CrawlResult) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("GRAPH\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  %d node(s), %d edge(s)\n", len(result.Nodes), len(result.Edges)))
	sb.WriteString("\n")

	if !w.verbose {
		return
	}

	for _, n := range result.Nodes {
		sb.WriteString(fmt.Sprintf("  %s[%d] %s (%s)\n", strings.Repeat("  ", n.Depth), n.Depth, n.ID, n.Type))
	}
	if len(result.Nodes) > 0 {
		sb.WriteString("\n")
	}
}

// writeWarnings writes warnings, skipped identifiers, and errors.
func (w *SimpleWriter) writeWarnings(sb *strings.Builder, result *model.CrawlResult) {
	w.writeList(sb, "WARNINGS", result.Warnings)
	w.writeList(sb, "SKIPPED IDENTIFIERS", result.SkippedPaths)
	w.writeList(sb, "ERRORS", result.Errors)
}

// writeList writes one bulleted section, hidden when empty unless showEmpty
// is set.
func (w *SimpleWriter) writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(items) == 0 {
		sb.WriteString("  (none)\n")
	}
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("  * %s\n", item))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by graphcrawl\n")
	sb.WriteString("https://github.com/nao1215/graphcrawl\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
