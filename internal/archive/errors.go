package archive

import "fmt"

// ArticleNotFoundError is returned when a title has no entry in the
// offset index. It is fatal to the single extraction but never to a
// crawl; the crawl engine downgrades it to a negative classification.
type ArticleNotFoundError struct {
	// Title is the title that was looked up.
	Title string
}

// Error implements the error interface.
func (e *ArticleNotFoundError) Error() string {
	return fmt.Sprintf("article not found in archive index: %q", e.Title)
}

// CorruptArchiveError is returned when the byte span recorded for a
// title fails to decompress. The extraction is not retried; the same
// span would fail the same way within one run.
type CorruptArchiveError struct {
	// Title is the title whose span failed.
	Title string

	// Err is the underlying decompression or read error.
	Err error
}

// Error implements the error interface.
func (e *CorruptArchiveError) Error() string {
	return fmt.Sprintf("corrupt archive span for %q: %v", e.Title, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *CorruptArchiveError) Unwrap() error {
	return e.Err
}

// DocumentNotFoundError is returned when a block decompressed cleanly
// but the scan finished without finding a document whose identifier
// matches the indexed page id. This is the pathological case of a
// wrong block being indexed for the title: the caller gets an explicit
// error rather than silently receiving partial text.
type DocumentNotFoundError struct {
	// Title is the title being extracted.
	Title string

	// PageID is the identifier the scanner was configured with.
	PageID string
}

// Error implements the error interface.
func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("no document with id %s found in block indexed for %q", e.PageID, e.Title)
}
