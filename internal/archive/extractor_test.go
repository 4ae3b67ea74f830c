package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/wikigraph/internal/index"
)

const testArchivePath = "testdata/pages.xml.bz2"

// buildTestIndex builds an offset index from a listing and opens it.
func buildTestIndex(t *testing.T, listingPath string) *index.Index {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "index.db")
	if err := index.Build(context.Background(), listingPath, dbPath, nil); err != nil {
		t.Fatalf("failed to build index: %v", err)
	}

	idx, err := index.Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open index: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	return idx
}

// newTestExtractor creates an extractor over the fixture archive.
func newTestExtractor(t *testing.T, opts ...Option) *Extractor {
	t.Helper()

	idx := buildTestIndex(t, filepath.Join("testdata", "listing.txt"))
	e, err := New(testArchivePath, idx, opts...)
	if err != nil {
		t.Fatalf("failed to create extractor: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })

	return e
}

// TestNew tests extractor construction.
func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("missing archive file fails loudly", func(t *testing.T) {
		t.Parallel()

		idx := buildTestIndex(t, filepath.Join("testdata", "listing.txt"))
		if _, err := New(filepath.Join(t.TempDir(), "nope.bz2"), idx); err == nil {
			t.Fatal("expected error for missing archive file")
		}
	})

	t.Run("nil index fails loudly", func(t *testing.T) {
		t.Parallel()

		if _, err := New(testArchivePath, nil); err == nil {
			t.Fatal("expected error for nil index")
		}
	})
}

// TestRetrieve tests document extraction against the fixture archive.
func TestRetrieve(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)
	ctx := context.Background()

	t.Run("retrieves document from first stream", func(t *testing.T) {
		doc, err := e.Retrieve(ctx, "Miles Davis")
		if err != nil {
			t.Fatalf("failed to retrieve document: %v", err)
		}
		if doc.PageID != "21482" {
			t.Errorf("expected page id 21482, got %q", doc.PageID)
		}
		if !strings.Contains(doc.RawText, "<title>Miles Davis</title>") {
			t.Errorf("reconstruction missing title element: %q", doc.RawText)
		}
		if !strings.Contains(doc.RawText, "American jazz trumpeter") {
			t.Errorf("reconstruction missing body text: %q", doc.RawText)
		}
		if strings.Contains(doc.RawText, "<title>John Coltrane</title>") {
			t.Errorf("reconstruction leaked a neighboring document: %q", doc.RawText)
		}
	})

	t.Run("retrieves document from final stream via sentinel", func(t *testing.T) {
		doc, err := e.Retrieve(ctx, "Bill Evans")
		if err != nil {
			t.Fatalf("failed to retrieve document: %v", err)
		}
		if doc.PageID != "104156" {
			t.Errorf("expected page id 104156, got %q", doc.PageID)
		}
		if !strings.Contains(doc.RawText, "American jazz pianist") {
			t.Errorf("reconstruction missing body text: %q", doc.RawText)
		}
	})

	t.Run("redirect marker survives reconstruction", func(t *testing.T) {
		doc, err := e.Retrieve(ctx, "Trane")
		if err != nil {
			t.Fatalf("failed to retrieve redirect document: %v", err)
		}
		if !strings.Contains(doc.RawText, `title="John Coltrane"`) {
			t.Errorf("redirect target attribute lost: %q", doc.RawText)
		}
	})

	t.Run("unknown title returns ArticleNotFoundError", func(t *testing.T) {
		_, err := e.Retrieve(ctx, "No Such Article")
		var notFound *ArticleNotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected ArticleNotFoundError, got %v", err)
		}
		if notFound.Title != "No Such Article" {
			t.Errorf("error carries wrong title: %q", notFound.Title)
		}
	})

	t.Run("repeated retrieval is deterministic", func(t *testing.T) {
		first, err := e.Retrieve(ctx, "Kind of Blue")
		if err != nil {
			t.Fatalf("failed to retrieve document: %v", err)
		}
		second, err := e.Retrieve(ctx, "Kind of Blue")
		if err != nil {
			t.Fatalf("failed to re-retrieve document: %v", err)
		}
		if first.RawText != second.RawText || first.PageID != second.PageID {
			t.Error("repeated retrieval returned a different document")
		}
	})
}

// TestRetrieveAmbiguousTitle tests deterministic duplicate resolution.
func TestRetrieveAmbiguousTitle(t *testing.T) {
	t.Parallel()

	// Two entries share the title; the first maps to the real page id,
	// the second to a different document in the same block.
	listing := filepath.Join(t.TempDir(), "listing.txt")
	lines := "0:21482:Miles Davis\n0:40420:Miles Davis\n"
	if err := os.WriteFile(listing, []byte(lines), 0600); err != nil {
		t.Fatalf("failed to write listing: %v", err)
	}

	idx := buildTestIndex(t, listing)
	e, err := New(testArchivePath, idx)
	if err != nil {
		t.Fatalf("failed to create extractor: %v", err)
	}
	defer e.Close()

	for range 3 {
		doc, err := e.Retrieve(context.Background(), "Miles Davis")
		if err != nil {
			t.Fatalf("failed to retrieve ambiguous title: %v", err)
		}
		if doc.PageID != "21482" {
			t.Errorf("ambiguous title did not resolve to first entry, got page id %q", doc.PageID)
		}
	}
}

// TestRetrieveWrongPageID tests the block-holds-no-such-document case.
func TestRetrieveWrongPageID(t *testing.T) {
	t.Parallel()

	listing := filepath.Join(t.TempDir(), "listing.txt")
	if err := os.WriteFile(listing, []byte("0:55555:Miles Davis\n"), 0600); err != nil {
		t.Fatalf("failed to write listing: %v", err)
	}

	idx := buildTestIndex(t, listing)
	e, err := New(testArchivePath, idx)
	if err != nil {
		t.Fatalf("failed to create extractor: %v", err)
	}
	defer e.Close()

	_, err = e.Retrieve(context.Background(), "Miles Davis")
	var notFound *DocumentNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected DocumentNotFoundError, got %v", err)
	}
	if notFound.PageID != "55555" {
		t.Errorf("error carries wrong page id: %q", notFound.PageID)
	}
}

// TestRetrieveCorruptArchive tests CorruptArchiveError on bad spans.
func TestRetrieveCorruptArchive(t *testing.T) {
	t.Parallel()

	t.Run("garbage bytes fail decompression", func(t *testing.T) {
		t.Parallel()

		archivePath := filepath.Join(t.TempDir(), "garbage.bz2")
		garbage := make([]byte, 1024)
		for i := range garbage {
			garbage[i] = byte(i)
		}
		if err := os.WriteFile(archivePath, garbage, 0600); err != nil {
			t.Fatalf("failed to write garbage archive: %v", err)
		}

		listing := filepath.Join(t.TempDir(), "listing.txt")
		if err := os.WriteFile(listing, []byte("0:21482:Miles Davis\n"), 0600); err != nil {
			t.Fatalf("failed to write listing: %v", err)
		}

		idx := buildTestIndex(t, listing)
		e, err := New(archivePath, idx)
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}
		defer e.Close()

		_, err = e.Retrieve(context.Background(), "Miles Davis")
		var corrupt *CorruptArchiveError
		if !errors.As(err, &corrupt) {
			t.Fatalf("expected CorruptArchiveError, got %v", err)
		}
	})

	t.Run("span past end of file fails the read", func(t *testing.T) {
		t.Parallel()

		listing := filepath.Join(t.TempDir(), "listing.txt")
		lines := "0:21482:Miles Davis\n1000000:1:Phantom\n"
		if err := os.WriteFile(listing, []byte(lines), 0600); err != nil {
			t.Fatalf("failed to write listing: %v", err)
		}

		idx := buildTestIndex(t, listing)
		e, err := New(testArchivePath, idx)
		if err != nil {
			t.Fatalf("failed to create extractor: %v", err)
		}
		defer e.Close()

		// Miles Davis now spans [0, 1000000), far past the real file end.
		_, err = e.Retrieve(context.Background(), "Miles Davis")
		var corrupt *CorruptArchiveError
		if !errors.As(err, &corrupt) {
			t.Fatalf("expected CorruptArchiveError, got %v", err)
		}
	})
}

// TestResolve tests index-only identity resolution.
func TestResolve(t *testing.T) {
	t.Parallel()

	e := newTestExtractor(t)

	ident, err := e.Resolve(context.Background(), "John Coltrane")
	if err != nil {
		t.Fatalf("failed to resolve title: %v", err)
	}
	if ident.PageID != "40420" {
		t.Errorf("expected page id 40420, got %q", ident.PageID)
	}
	if ident.Title != "John Coltrane" {
		t.Errorf("expected canonical title, got %q", ident.Title)
	}

	_, err = e.Resolve(context.Background(), "No Such Article")
	var notFound *ArticleNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ArticleNotFoundError, got %v", err)
	}
}
