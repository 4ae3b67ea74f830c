package report

import (
	"io"

	"github.com/nao1215/wikigraph/internal/model"
)

// Writer outputs a crawl result in one concrete format.
//
// Design decision: We use an interface to allow different output
// formats and destinations. Writing to a file, stdout, or a network
// connection all share the same API.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.CrawlResult) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
