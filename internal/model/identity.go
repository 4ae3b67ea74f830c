package model

// DocumentIdentity is a document's canonical identity as recorded in
// the offset index: the unique page id and the canonical title. Link
// text can differ from the canonical title (wiki links are
// case-insensitive in their first letter), so everything keyed on
// identity (the classification cache, the visited set, graph node
// properties) uses this type rather than raw link text.
type DocumentIdentity struct {
	// PageID is the unique page identifier.
	PageID string

	// Title is the canonical article title.
	Title string
}
