package model

// ExtractedDocument is one document reconstructed from the archive.
// It is the output of the archive extractor and the input of the
// wikitext parser. The raw text is a reconstruction of the original
// <page> element, not a byte-identical copy: tags are re-serialized
// with stable attribute ordering and quoting, and whitespace between
// tags outside text nodes may be lost.
//
// Instances are transient. The crawl engine hands them to the parser
// immediately and never retains them; raw text for a large article can
// run to megabytes.
type ExtractedDocument struct {
	// PageID is the unique page identifier from the document envelope.
	// It is kept as a string because identifiers are compared as
	// strings throughout (leading zeros must not collapse).
	PageID string

	// RawText is the reconstructed XML source of the document.
	RawText string
}

// Article is the structured record produced by parsing an extracted
// document. The crawl engine treats it as opaque except for the
// identity fields and the outgoing link list.
type Article struct {
	// PageID is the unique page identifier.
	PageID string `json:"page_id"`

	// Title is the article title from the document envelope.
	Title string `json:"title"`

	// RedirectTo is the target title when the article is a redirect.
	// Empty for ordinary articles.
	RedirectTo string `json:"redirect_to,omitempty"`

	// OutgoingLinks are the titles of articles this article links to,
	// in the order they appear in the wikitext. Duplicate targets are
	// dropped, keeping the first occurrence.
	OutgoingLinks []string `json:"outgoing_links,omitempty"`

	// Categories are the category names the article belongs to,
	// without the namespace prefix.
	Categories []string `json:"categories,omitempty"`

	// PlainText is the wikitext body with embedded HTML markup
	// stripped. Classifiers match against this and Categories.
	PlainText string `json:"-"`
}

// IsRedirect reports whether the article is a redirect stub.
func (a *Article) IsRedirect() bool {
	return a.RedirectTo != ""
}
