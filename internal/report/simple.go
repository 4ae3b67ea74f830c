package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/wikigraph/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal
// display. Plain ASCII formatting, no ANSI colors: it works in every
// terminal and pipes cleanly into files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose includes the per-link failure list in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with the per-link failure list.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the crawl result as human-readable text.
func (w *SimpleWriter) Write(result *model.CrawlResult) (int, error) {
	var b strings.Builder

	b.WriteString("wikigraph crawl report\n")
	b.WriteString(strings.Repeat("=", 40) + "\n\n")

	fmt.Fprintf(&b, "Seeds:            %s\n", strings.Join(result.Seeds, ", "))
	fmt.Fprintf(&b, "Acceptance bound: %d\n", result.AcceptBound)
	fmt.Fprintf(&b, "Accepted:         %d\n", result.Accepted)
	fmt.Fprintf(&b, "Outcome:          %s\n", outcome(result))
	fmt.Fprintf(&b, "Duration:         %s\n\n", result.Duration().Round(time.Millisecond))

	fmt.Fprintf(&b, "Nodes registered: %d\n", result.NodesRegistered)
	fmt.Fprintf(&b, "Edges registered: %d\n", result.EdgesRegistered)
	fmt.Fprintf(&b, "Cache hits:       %d\n", result.CacheHits)
	fmt.Fprintf(&b, "Link failures:    %d\n", len(result.LinkErrors))
	fmt.Fprintf(&b, "Graph totals:     %d nodes, %d edges\n", result.GraphNodes, result.GraphEdges)

	if w.verbose && len(result.LinkErrors) > 0 {
		b.WriteString("\nFailed links (classified negative):\n")
		for _, le := range result.LinkErrors {
			fmt.Fprintf(&b, "  - %s: %s\n", le.Title, le.Reason)
		}
	}

	return w.output.Write([]byte(b.String()))
}

// outcome describes why the crawl stopped.
func outcome(result *model.CrawlResult) string {
	if result.BoundReached() {
		return "acceptance bound reached"
	}
	return "queue drained before bound"
}
