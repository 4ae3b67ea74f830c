// Package classify decides whether parsed articles belong in the
// crawl graph.
//
// The Classifier interface keeps the crawl engine independent of how
// verdicts are computed; the shipped implementation matches configured
// regular expressions against an article's categories and plain text.
package classify
