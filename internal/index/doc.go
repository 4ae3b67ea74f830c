// Package index provides the byte-offset index over the multistream
// archive: a SQLite table mapping article titles to the byte range of
// their containing compressed block and to their unique page id.
//
// The index is built once from the flat "offset:id:title" listing that
// ships alongside the archive (Build) and is strictly read-only at
// crawl time (Open/Lookup). Duplicate titles are preserved; Lookup
// returns all matching entries in insertion order so that callers can
// resolve the ambiguity deterministically.
package index
