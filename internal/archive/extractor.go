package archive

import (
	"bytes"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nao1215/wikigraph/internal/index"
	"github.com/nao1215/wikigraph/internal/model"
)

// Extractor reconstructs single documents out of the multistream bzip2
// archive using the offset index.
//
// An Extractor owns its archive file handle. The handle's read cursor
// is the one piece of shared mutable state, so an Extractor must not
// be used from multiple goroutines; the file itself is read-only and
// safely shareable, so concurrent callers each open their own
// Extractor instead.
type Extractor struct {
	// archive is the open archive file.
	archive *os.File

	// archivePath is kept for error messages.
	archivePath string

	// idx resolves titles to byte ranges and page ids.
	idx *index.Index

	// logger is used for structured logging.
	logger *slog.Logger

	// recent is a bounded convenience cache of recently retrieved
	// documents, keyed by title. Correctness never depends on it; it
	// only saves re-decompressing a block when the same title is
	// requested twice in a row.
	recent      map[string]model.ExtractedDocument
	recentOrder []string
	recentLimit int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets a custom logger for the extractor.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

// WithRecentDocuments sets the size of the recently-retrieved document
// cache. Zero disables the cache.
func WithRecentDocuments(n int) Option {
	return func(e *Extractor) {
		e.recentLimit = n
	}
}

// defaultRecentLimit bounds the convenience cache. Documents can be
// tens of megabytes, so the bound stays low.
const defaultRecentLimit = 16

// New creates an Extractor over the archive at archivePath, resolving
// titles through idx. A missing archive file is a construction error:
// the caller gets no partial object.
func New(archivePath string, idx *index.Index, opts ...Option) (*Extractor, error) {
	if idx == nil {
		return nil, errors.New("archive: offset index must not be nil")
	}

	f, err := os.Open(archivePath) //nolint:gosec // User-provided archive path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	e := &Extractor{
		archive:     f,
		archivePath: archivePath,
		idx:         idx,
		logger:      slog.Default(),
		recent:      make(map[string]model.ExtractedDocument),
		recentLimit: defaultRecentLimit,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Close releases the archive file handle. The offset index is owned by
// the caller and stays open.
func (e *Extractor) Close() error {
	return e.archive.Close()
}

// Resolve returns the canonical identity recorded for a title without
// touching the archive. Ambiguous titles resolve to the first entry in
// index order, the same entry Retrieve would use.
func (e *Extractor) Resolve(ctx context.Context, title string) (model.DocumentIdentity, error) {
	entries, err := e.idx.Lookup(ctx, title)
	if err != nil {
		if errors.Is(err, index.ErrTitleNotFound) {
			return model.DocumentIdentity{}, &ArticleNotFoundError{Title: title}
		}
		return model.DocumentIdentity{}, err
	}
	return model.DocumentIdentity{PageID: entries[0].PageID, Title: entries[0].Title}, nil
}

// Retrieve reconstructs the document registered for title.
//
// The byte range recorded in the offset index is read and decompressed
// as one unit, then scanned for the document whose identifier matches
// the indexed page id; a decompressed block routinely contains other
// documents and possibly a truncated trailing fragment, all of which
// are discarded. The result is deterministic for a fixed archive and
// index pair.
func (e *Extractor) Retrieve(ctx context.Context, title string) (model.ExtractedDocument, error) {
	entries, err := e.idx.Lookup(ctx, title)
	if err != nil {
		if errors.Is(err, index.ErrTitleNotFound) {
			return model.ExtractedDocument{}, &ArticleNotFoundError{Title: title}
		}
		return model.ExtractedDocument{}, err
	}

	// Duplicate titles are not fatal: take the first entry in index
	// order, which is stable across runs, and surface the ambiguity.
	entry := entries[0]
	if len(entries) > 1 {
		e.logger.Warn("ambiguous title in offset index, using first entry",
			"title", title,
			"matches", len(entries),
			"pageID", entry.PageID,
		)
	}

	if doc, ok := e.recent[entry.Title]; ok {
		return doc, nil
	}

	span, err := e.readSpan(entry)
	if err != nil {
		return model.ExtractedDocument{}, &CorruptArchiveError{Title: title, Err: err}
	}

	// The recorded offsets are bzip2 stream boundaries, so the span
	// decompresses as an independent unit even though it may end
	// mid-archive.
	block, err := io.ReadAll(bzip2.NewReader(bytes.NewReader(span)))
	if err != nil {
		return model.ExtractedDocument{}, &CorruptArchiveError{Title: title, Err: err}
	}

	raw, found := scanForDocument(bytes.NewReader(block), entry.PageID)
	if !found {
		return model.ExtractedDocument{}, &DocumentNotFoundError{Title: title, PageID: entry.PageID}
	}

	doc := model.ExtractedDocument{PageID: entry.PageID, RawText: raw}
	e.remember(entry.Title, doc)

	e.logger.Debug("document extracted",
		"title", title,
		"pageID", entry.PageID,
		"spanBytes", len(span),
		"blockBytes", len(block),
	)
	return doc, nil
}

// readSpan reads the compressed byte range [StartOffset, EndOffset)
// for an entry, or from StartOffset to end of file when the entry
// carries the read-to-EOF sentinel. The span is owned by this single
// extraction; spans are frequently tens of megabytes and are never
// cached or shared.
func (e *Extractor) readSpan(entry index.Entry) ([]byte, error) {
	if _, err := e.archive.Seek(int64(entry.StartOffset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek archive to %d: %w", entry.StartOffset, err)
	}

	if entry.EndOffset == index.SentinelEndOffset {
		span, err := io.ReadAll(e.archive)
		if err != nil {
			return nil, fmt.Errorf("failed to read trailing span: %w", err)
		}
		return span, nil
	}

	length := entry.EndOffset - int64(entry.StartOffset)
	if length <= 0 {
		return nil, fmt.Errorf("invalid span [%d, %d) in offset index", entry.StartOffset, entry.EndOffset)
	}

	span := make([]byte, length)
	if _, err := io.ReadFull(e.archive, span); err != nil {
		return nil, fmt.Errorf("failed to read span of %d bytes: %w", length, err)
	}
	return span, nil
}

// remember stores a document in the convenience cache, evicting the
// oldest entry once the bound is reached.
func (e *Extractor) remember(title string, doc model.ExtractedDocument) {
	if e.recentLimit <= 0 {
		return
	}
	if _, ok := e.recent[title]; ok {
		return
	}
	if len(e.recentOrder) >= e.recentLimit {
		oldest := e.recentOrder[0]
		e.recentOrder = e.recentOrder[1:]
		delete(e.recent, oldest)
	}
	e.recent[title] = doc
	e.recentOrder = append(e.recentOrder, title)
}
