package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"golang.org/x/text/unicode/norm"
)

// ErrTitleNotFound is returned by Lookup when no entry matches the title.
var ErrTitleNotFound = errors.New("title not found in offset index")

// SentinelEndOffset marks an entry whose block extends to the end of
// the archive file.
const SentinelEndOffset = int64(-1)

// Entry maps one article title to the byte range of its compressed
// block and the article's unique page id. Entries are immutable once
// built. Multiple entries may share a title (duplicate pages); lookup
// returns all of them in insertion order and the caller resolves the
// ambiguity.
type Entry struct {
	// Title is the article title, NFC-normalized.
	Title string

	// PageID is the unique page identifier, kept as a string so that
	// identifiers with leading zeros survive round trips.
	PageID string

	// StartOffset is the byte offset of the containing compressed
	// block within the archive file.
	StartOffset uint64

	// EndOffset is the byte offset of the next distinct compressed
	// block, or SentinelEndOffset when the block is the last one and
	// the reader should consume to end of file.
	EndOffset int64
}

// Index is a read-only SQLite-backed offset index. It is safe for
// concurrent readers; the build step is the only writer and runs once,
// before any reader exists.
type Index struct {
	db   *sql.DB
	path string
}

// Open opens an existing offset index. A missing index file is a
// construction error: the caller gets no partial object.
func Open(path string) (*Index, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("offset index does not exist at %s (build it with 'wikigraph index')", path)
		}
		return nil, fmt.Errorf("failed to check offset index path: %w", err)
	}

	// mode=ro keeps readers from ever creating or mutating the file.
	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open offset index: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	return &Index{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Lookup returns every entry whose title matches, in insertion (rowid)
// order. The stable ordering is what makes ambiguous-title resolution
// deterministic across runs: the caller always sees the same first
// entry. Titles are NFC-normalized before comparison, matching the
// normalization applied at build time.
//
// Returns ErrTitleNotFound (wrapped with the title) on zero matches.
func (idx *Index) Lookup(ctx context.Context, title string) ([]Entry, error) {
	normalized := norm.NFC.String(title)

	rows, err := idx.db.QueryContext(ctx,
		`SELECT title, page_id, start_offset, end_offset FROM articles WHERE title = ? ORDER BY rowid`,
		normalized)
	if err != nil {
		return nil, fmt.Errorf("offset index query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var start int64
		if err := rows.Scan(&e.Title, &e.PageID, &start, &e.EndOffset); err != nil {
			return nil, fmt.Errorf("failed to scan index entry: %w", err)
		}
		e.StartOffset = uint64(start)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("offset index query failed: %w", err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrTitleNotFound, title)
	}
	return entries, nil
}

// Count returns the number of entries in the index.
func (idx *Index) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := idx.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count index entries: %w", err)
	}
	return n, nil
}
