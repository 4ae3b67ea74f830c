// Package wikitext parses reconstructed documents into structured
// article records: identity, outgoing links, categories, and a
// plain-text body.
//
// Link extraction is intentionally shallow. The crawl only needs link
// targets in emission order and category memberships; full wikitext
// rendering is far outside this project's scope.
package wikitext
