package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/graphcrawl/internal/model"
)

// MarkdownWriter outputs crawl results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, result)
	w.writeSafety(md, result)
	w.writeGraph(md, result)
	w.writeWarnings(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.CrawlResult) {
	md.H1("Graphcrawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Origin", "`" + result.Origin + "`"},
			{"Scope", result.Scope.String()},
			{"Crawl Date", result.Timestamp.Format("2006-01-02 15:04:05 MST")},
			{"Duration", fmt.Sprintf("%.2fs", result.DurationSeconds)},
			{"Status", w.statusText(result)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, result)
}

// statusText returns the status cell based on the result state.
func (w *MarkdownWriter) statusText(result *model.CrawlResult) string {
	switch result.Status {
	case model.StatusCompleted:
		return "✅ Completed"
	case model.StatusSkipped:
		return "⏭️ Skipped"
	default:
		if result.Safety.CircuitBreakerTriggered {
			return "⚠️ Failed (circuit breaker, partial results)"
		}
		return "❌ Failed"
	}
}

// writeAlert writes an alert matching the crawl outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, result *model.CrawlResult) {
	switch {
	case result.Status == model.StatusSkipped:
		md.Note("Crawl skipped: the precondition for this scope was not met.")
	case result.Safety.CircuitBreakerTriggered:
		md.Warningf(
			"A safety circuit breaker stopped this crawl early. %d node(s) were gathered before the break.",
			len(result.Nodes),
		)
	case result.Status == model.StatusFailed:
		md.Caution("Crawl failed. See the errors section below.")
	case result.Safety.RadiusLimitHit:
		md.Important("The depth limit dropped reachable children. Increase max depth to see more of the graph.")
	default:
		md.Tip("Crawl completed within every safety bound.")
	}
	md.PlainText("")
}

// writeSafety writes the safety metrics section.
func (w *MarkdownWriter) writeSafety(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Safety Metrics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Depth Reached", strconv.Itoa(result.Safety.DepthReached)},
			{"Nodes Analyzed", strconv.Itoa(result.Safety.FilesAnalyzed)},
			{"Memory Peak", fmt.Sprintf("%.2f MB", result.Safety.MemoryPeakMB)},
			{"Circuit Breaker", strconv.FormatBool(result.Safety.CircuitBreakerTriggered)},
			{"Radius Limit Hit", strconv.FormatBool(result.Safety.RadiusLimitHit)},
		},
	})
	md.PlainText("")
}

// writeGraph writes the discovered graph section with a depth distribution
// chart and the node table.
func (w *MarkdownWriter) writeGraph(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Graph")
	md.PlainText("")
	md.PlainTextf("%d node(s), %d edge(s).", len(result.Nodes), len(result.Edges))
	md.PlainText("")

	if len(result.Nodes) == 0 {
		return
	}

	w.writeDepthChart(md, result)

	rows := make([][]string, len(result.Nodes))
	for i, n := range result.Nodes {
		rows[i] = []string{"`" + n.ID + "`", n.Type, strconv.Itoa(n.Depth)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Node", "Type", "Depth"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDepthChart writes a mermaid pie chart of nodes per depth.
func (w *MarkdownWriter) writeDepthChart(md *markdown.Markdown, result *model.CrawlResult) {
	perDepth := make(map[int]int)
	maxDepth := 0
	for _, n := range result.Nodes {
		perDepth[n.Depth]++
		if n.Depth > maxDepth {
			maxDepth = n.Depth
		}
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Nodes per Depth"),
		piechart.WithShowData(true),
	)
	for depth := 0; depth <= maxDepth; depth++ {
		if perDepth[depth] > 0 {
			chart.LabelAndIntValue("depth "+strconv.Itoa(depth), uint64(perDepth[depth]))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeWarnings writes warnings, skipped identifiers, and errors.
func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, result *model.CrawlResult) {
	if len(result.Warnings) > 0 {
		md.H2("Warnings")
		md.PlainText("")
		md.BulletList(result.Warnings...)
		md.PlainText("")
	}

	if len(result.SkippedPaths) > 0 {
		md.H2("Skipped Identifiers")
		md.PlainText("")
		md.BulletList(result.SkippedPaths...)
		md.PlainText("")
	}

	if len(result.Errors) > 0 {
		md.H2("Errors")
		md.PlainText("")
		md.BulletList(result.Errors...)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [graphcrawl](https://github.com/nao1215/graphcrawl)*")
}
