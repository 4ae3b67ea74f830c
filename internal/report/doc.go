// Package report renders crawl results in multiple formats:
// human-readable text for terminals, JSON for machine consumption,
// and Markdown for documentation.
package report
