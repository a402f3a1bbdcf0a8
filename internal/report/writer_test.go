package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/graphcrawl/internal/model"
)

// sampleResult builds a completed crawl result with a small graph.
func sampleResult() *model.CrawlResult {
	r := model.NewCrawlResult(model.ScopeCodeDependencies, "src/app.ts")
	r.Timestamp = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	r.DurationSeconds = 1.23
	r.Nodes = []model.Node{
		{ID: "src/app.ts", Type: "module", Depth: 0},
		{ID: "src/api.ts", Type: "module", Depth: 1},
		{ID: "src/db.ts", Type: "module", Depth: 1},
	}
	r.Edges = []model.Edge{
		{From: "src/app.ts", To: "src/api.ts", Relationship: model.RelationshipReferences},
		{From: "src/app.ts", To: "src/db.ts", Relationship: model.RelationshipReferences},
	}
	r.Safety = model.SafetyMetrics{
		DepthReached:  1,
		FilesAnalyzed: 3,
		MemoryPeakMB:  12.34,
	}
	r.Status = model.StatusCompleted
	return r
}

// TestJSONWriterCompact verifies the machine contract: valid JSON, edge
// triples, RFC 3339 timestamp, and exact metric field names.
func TestJSONWriterCompact(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewJSONWriter(&buf).Write(sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("expected trailing newline")
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded["timestamp"] != "2026-08-31T12:00:00Z" {
		t.Errorf("expected RFC 3339 timestamp, got %v", decoded["timestamp"])
	}

	edges, ok := decoded["edges"].([]interface{})
	if !ok || len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %v", decoded["edges"])
	}
	first, ok := edges[0].([]interface{})
	if !ok || len(first) != 3 {
		t.Fatalf("expected edge triple, got %v", edges[0])
	}
	if first[0] != "src/app.ts" || first[1] != "src/api.ts" || first[2] != "references" {
		t.Errorf("unexpected edge triple %v", first)
	}

	safety, ok := decoded["safety_metrics"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected safety_metrics object, got %v", decoded["safety_metrics"])
	}
	for _, field := range []string{
		"depth_reached", "files_analyzed", "memory_peak_mb",
		"circuit_breaker_triggered", "radius_limit_hit",
	} {
		if _, present := safety[field]; !present {
			t.Errorf("expected safety metric field %q", field)
		}
	}
}

// TestJSONWriterEmptyResult verifies that a never-run crawl serializes with
// empty arrays, not nulls.
func TestJSONWriterEmptyResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf).Write(model.NewCrawlResult(model.ScopeViewStructure, "app")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, `"nodes":null`) || strings.Contains(out, `"edges":null`) {
		t.Errorf("expected empty arrays, got %s", out)
	}
	if !strings.Contains(out, `"status":"skipped"`) {
		t.Errorf("expected initial skipped status, got %s", out)
	}
}

// TestJSONWriterPrettyPrint verifies indented output.
func TestJSONWriterPrettyPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"scope\"") {
		t.Errorf("expected indented output, got %s", buf.String())
	}
}

// TestJSONWriterSizeBudget verifies the serialized size ceiling.
func TestJSONWriterSizeBudget(t *testing.T) {
	t.Parallel()

	t.Run("within budget", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithMaxResultSizeMB(1)).Write(sampleResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("over budget", func(t *testing.T) {
		t.Parallel()

		result := sampleResult()
		// Two megabytes of warnings against a one megabyte budget.
		filler := strings.Repeat("x", 1024)
		for range 2048 {
			result.Warnings = append(result.Warnings, filler)
		}

		var buf bytes.Buffer
		_, err := NewJSONWriter(&buf, WithMaxResultSizeMB(1)).Write(result)
		if !errors.Is(err, ErrResultTooLarge) {
			t.Fatalf("expected ErrResultTooLarge, got %v", err)
		}
		if buf.Len() != 0 {
			t.Error("expected nothing written for an oversized result")
		}
	})
}

// TestFullJSONWriter verifies the version-wrapped output.
func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewFullJSONWriter(&buf, "1.2.3").Write(sampleResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wrapped struct {
		Version string             `json:"version"`
		Result  *model.CrawlResult `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if wrapped.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", wrapped.Version)
	}
	if wrapped.Result == nil || wrapped.Result.Origin != "src/app.ts" {
		t.Errorf("expected wrapped result, got %+v", wrapped.Result)
	}
}

// TestMarkdownWriter verifies the sections and outcome alert of the markdown
// report.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("completed crawl", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Graphcrawl Report",
			"## Safety Metrics",
			"## Graph",
			"`src/app.ts`",
			"code_dependencies",
			"mermaid",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		if !strings.Contains(out, "[!TIP]") {
			t.Errorf("expected a tip alert for a clean crawl, got %s", out)
		}
	})

	t.Run("circuit-broken crawl", func(t *testing.T) {
		t.Parallel()

		result := sampleResult()
		result.Status = model.StatusFailed
		result.Safety.CircuitBreakerTriggered = true
		result.Errors = append(result.Errors, "circuit breaker tripped (timeout): measured 31.00s, limit 30.00s")

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "[!WARNING]") {
			t.Error("expected a warning alert for a circuit-broken crawl")
		}
		if !strings.Contains(out, "## Errors") {
			t.Error("expected an errors section")
		}
	})

	t.Run("radius-bounded crawl", func(t *testing.T) {
		t.Parallel()

		result := sampleResult()
		result.Safety.RadiusLimitHit = true

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!IMPORTANT]") {
			t.Error("expected an important alert for a radius-bounded crawl")
		}
	})
}

// TestSimpleWriter verifies the human-readable report.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(sampleResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		out := buf.String()
		for _, want := range []string{
			"GRAPHCRAWL REPORT",
			"Origin:     src/app.ts",
			"SAFETY METRICS",
			"3 node(s), 2 edge(s)",
			"Status:     Completed",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
		// Empty sections are hidden by default.
		if strings.Contains(out, "WARNINGS") {
			t.Error("expected empty warnings section to be hidden")
		}
	})

	t.Run("verbose node listing", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(sampleResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[1] src/api.ts (module)") {
			t.Errorf("expected verbose node listing, got %s", buf.String())
		}
	})

	t.Run("warnings and skips shown when present", func(t *testing.T) {
		t.Parallel()

		result := sampleResult()
		result.Warnings = append(result.Warnings, `Skipped sensitive identifier db_secret_key (pattern "secret")`)
		result.SkippedPaths = append(result.SkippedPaths, "db_secret_key")

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "WARNINGS") || !strings.Contains(out, "SKIPPED IDENTIFIERS") {
			t.Errorf("expected warnings and skipped sections, got %s", out)
		}
	})

	t.Run("show empty sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithShowEmpty(true)).Write(sampleResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "(none)") {
			t.Error("expected empty sections to be rendered with showEmpty")
		}
	})
}

// TestMultiWriter verifies fan-out and first-error behavior.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mw := NewMultiWriter(NewJSONWriter(&a), NewSimpleWriter(&b))

	total, err := mw.Write(sampleResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != a.Len()+b.Len() {
		t.Errorf("expected total %d, got %d", a.Len()+b.Len(), total)
	}
	if a.Len() == 0 || b.Len() == 0 {
		t.Error("expected both destinations to receive output")
	}
}
