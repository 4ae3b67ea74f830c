package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wikigraph/internal/model"
)

// sampleResult returns a populated crawl result for writer tests.
func sampleResult() *model.CrawlResult {
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &model.CrawlResult{
		Seeds:           []string{"Miles Davis"},
		AcceptBound:     150,
		Accepted:        42,
		NodesRegistered: 43,
		EdgesRegistered: 80,
		CacheHits:       12,
		QueueDrained:    true,
		LinkErrors: []model.LinkError{
			{Title: "Broken Article", Reason: "bzip2 data invalid"},
		},
		GraphNodes: 100,
		GraphEdges: 250,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
	}
}

// TestSimpleWriter tests the human-readable report.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("includes headline metrics", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(sampleResult())
		if err != nil {
			t.Fatalf("failed to write report: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"Miles Davis",
			"Accepted:         42",
			"queue drained before bound",
			"Nodes registered: 43",
			"Cache hits:       12",
			"100 nodes, 250 edges",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("report missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("failure list only appears in verbose mode", func(t *testing.T) {
		t.Parallel()

		var quiet, verbose bytes.Buffer
		if _, err := NewSimpleWriter(&quiet).Write(sampleResult()); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}
		if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).Write(sampleResult()); err != nil {
			t.Fatalf("failed to write verbose report: %v", err)
		}

		if strings.Contains(quiet.String(), "Broken Article") {
			t.Error("failure details leaked into quiet output")
		}
		if !strings.Contains(verbose.String(), "Broken Article: bzip2 data invalid") {
			t.Errorf("verbose output missing failure details:\n%s", verbose.String())
		}
	})

	t.Run("bound reached outcome", func(t *testing.T) {
		t.Parallel()

		result := sampleResult()
		result.Accepted = 150
		result.QueueDrained = false

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(result); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}
		if !strings.Contains(buf.String(), "acceptance bound reached") {
			t.Errorf("expected bound-reached outcome:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the machine-readable report.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewJSONWriter(&buf)

	n, err := w.Write(sampleResult())
	if err != nil {
		t.Fatalf("failed to write report: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	var decoded model.CrawlResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if decoded.Accepted != 42 || decoded.NodesRegistered != 43 {
		t.Errorf("round trip lost fields: %+v", decoded)
	}
	if len(decoded.LinkErrors) != 1 || decoded.LinkErrors[0].Title != "Broken Article" {
		t.Errorf("round trip lost link errors: %+v", decoded.LinkErrors)
	}
}

// TestMarkdownWriter tests the Markdown report.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders sections and tables", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(sampleResult()); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# wikigraph Crawl Report",
			"## Graph",
			"| Seeds",
			"Miles Davis",
			"## Failed Links",
			"`Broken Article`: bzip2 data invalid",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("markdown missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("no failure section without failures", func(t *testing.T) {
		t.Parallel()

		result := sampleResult()
		result.LinkErrors = nil

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(result); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}
		if strings.Contains(buf.String(), "Failed Links") {
			t.Errorf("unexpected failure section:\n%s", buf.String())
		}
	})
}
