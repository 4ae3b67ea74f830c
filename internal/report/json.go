package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/wikigraph/internal/model"
)

// JSONWriter outputs crawl results as indented JSON, for machine
// consumption and log aggregation.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the crawl result as JSON.
func (w *JSONWriter) Write(result *model.CrawlResult) (int, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
