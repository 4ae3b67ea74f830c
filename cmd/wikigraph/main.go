// Package main provides the entry point for the wikigraph CLI.
//
// wikigraph extracts articles from a Wikipedia multistream bzip2 dump
// and crawls the article link graph from a seed set, materializing a
// directed graph of accepted articles.
//
// Usage:
//
//	wikigraph index <listing-file>
//	wikigraph crawl "Seed Title"
//	wikigraph extract "Some Title"
//
// See --help for all available options.
package main

// main is the entry point for wikigraph.
func main() {
	Execute()
}
