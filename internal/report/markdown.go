package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/wikigraph/internal/model"
)

// MarkdownWriter outputs crawl results in GitHub Flavored Markdown,
// for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation: type-safe tables, lists, and alerts beat
// hand-concatenated strings.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the crawl result as Markdown.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("wikigraph Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seeds", strings.Join(result.Seeds, ", ")},
			{"Acceptance bound", strconv.Itoa(result.AcceptBound)},
			{"Accepted", strconv.Itoa(result.Accepted)},
			{"Outcome", outcome(result)},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Duration().String()},
		},
	})
	md.PlainText("")

	md.H2("Graph")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Nodes registered this run", strconv.Itoa(result.NodesRegistered)},
			{"Edges registered this run", strconv.Itoa(result.EdgesRegistered)},
			{"Cache hits", strconv.Itoa(result.CacheHits)},
			{"Total nodes in store", strconv.FormatInt(result.GraphNodes, 10)},
			{"Total edges in store", strconv.FormatInt(result.GraphEdges, 10)},
		},
	})
	md.PlainText("")

	if len(result.LinkErrors) > 0 {
		md.H2("Failed Links")
		md.PlainText("The following links were classified negative after a failure:")
		md.PlainText("")
		items := make([]string, 0, len(result.LinkErrors))
		for _, le := range result.LinkErrors {
			items = append(items, "`"+le.Title+"`: "+le.Reason)
		}
		md.BulletList(items...)
		md.PlainText("")
	}

	return len(md.String()), md.Build()
}
