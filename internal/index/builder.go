package index

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"
)

// insertBatchSize is the number of rows per INSERT transaction batch.
// Full dumps carry tens of millions of entries; committing per row
// would make the build take hours.
const insertBatchSize = 10000

// Build transforms the flat multistream index listing into a queryable
// SQLite offset index at dbPath. Each listing line has the form
//
//	start_offset:page_id:title
//
// where the title may itself contain colons. The end offset of each
// entry is the next distinct start offset in the listing, or
// SentinelEndOffset for entries in the final block.
//
// Build is a one-time batch transform. It replaces any existing
// articles table at dbPath.
func Build(ctx context.Context, listingPath, dbPath string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(listingPath) //nolint:gosec // User-provided listing path is intentional
	if err != nil {
		return fmt.Errorf("failed to open index listing: %w", err)
	}
	defer f.Close()

	// Stage 1: parse the listing. Reading and parsing run in separate
	// goroutines so the (frequently compressed-filesystem) read and
	// the line parsing overlap.
	lines := make(chan string, 1024)
	var entries []Entry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(lines)
		scanner := bufio.NewScanner(f)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return scanner.Err()
	})
	g.Go(func() error {
		lineNo := 0
		for line := range lines {
			lineNo++
			if strings.TrimSpace(line) == "" {
				continue
			}
			e, err := parseListingLine(line)
			if err != nil {
				return fmt.Errorf("listing line %d: %w", lineNo, err)
			}
			entries = append(entries, e)
			if lineNo%1000000 == 0 {
				logger.Debug("parsing index listing", "lines", lineNo)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	resolveEndOffsets(entries)
	logger.Info("index listing parsed", "entries", len(entries))

	return writeIndex(ctx, dbPath, entries)
}

// parseListingLine splits one listing line on its first two colons.
// Everything after the second colon is the title, colons included.
func parseListingLine(line string) (Entry, error) {
	first := strings.IndexByte(line, ':')
	if first < 0 {
		return Entry{}, fmt.Errorf("malformed listing line %q: missing offset separator", line)
	}
	second := strings.IndexByte(line[first+1:], ':')
	if second < 0 {
		return Entry{}, fmt.Errorf("malformed listing line %q: missing id separator", line)
	}
	second += first + 1

	start, err := strconv.ParseUint(line[:first], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("malformed start offset in %q: %w", line, err)
	}

	pageID := line[first+1 : second]
	if pageID == "" {
		return Entry{}, fmt.Errorf("malformed listing line %q: empty page id", line)
	}

	return Entry{
		Title:       norm.NFC.String(line[second+1:]),
		PageID:      pageID,
		StartOffset: start,
		EndOffset:   SentinelEndOffset,
	}, nil
}

// resolveEndOffsets assigns each entry the next distinct start offset
// as its end offset. Entries sharing the final block keep the
// read-to-EOF sentinel.
func resolveEndOffsets(entries []Entry) {
	distinct := make(map[uint64]struct{}, len(entries))
	for _, e := range entries {
		distinct[e.StartOffset] = struct{}{}
	}

	starts := make([]uint64, 0, len(distinct))
	for s := range distinct {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	next := make(map[uint64]int64, len(starts))
	for i, s := range starts {
		if i+1 < len(starts) {
			next[s] = int64(starts[i+1])
		} else {
			next[s] = SentinelEndOffset
		}
	}

	for i := range entries {
		entries[i].EndOffset = next[entries[i].StartOffset]
	}
}

// writeIndex creates the articles table and bulk-inserts the entries.
func writeIndex(ctx context.Context, dbPath string, entries []Entry) error {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return fmt.Errorf("failed to open index database: %w", err)
	}
	defer db.Close()

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)

	schema := `
	DROP TABLE IF EXISTS articles;
	CREATE TABLE articles (
		title TEXT NOT NULL,
		page_id TEXT NOT NULL,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL
	);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create articles table: %w", err)
	}

	for lo := 0; lo < len(entries); lo += insertBatchSize {
		hi := lo + insertBatchSize
		if hi > len(entries) {
			hi = len(entries)
		}
		if err := insertBatch(ctx, db, entries[lo:hi]); err != nil {
			return err
		}
	}

	// Secondary indexes come last; building them once over the full
	// table is much faster than maintaining them during insertion.
	indexes := `
	CREATE INDEX articles_title_idx ON articles (title);
	CREATE INDEX articles_page_id_idx ON articles (page_id);
	`
	if _, err := db.ExecContext(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create secondary indexes: %w", err)
	}

	return nil
}

// insertBatch inserts one batch of entries inside a single transaction.
func insertBatch(ctx context.Context, db *sql.DB, batch []Entry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (title, page_id, start_offset, end_offset) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range batch {
		if _, err := stmt.ExecContext(ctx, e.Title, e.PageID, int64(e.StartOffset), e.EndOffset); err != nil {
			return fmt.Errorf("failed to insert index entry for %q: %w", e.Title, err)
		}
	}

	return tx.Commit()
}
