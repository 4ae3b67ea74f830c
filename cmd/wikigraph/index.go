package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikigraph/internal/config"
	"github.com/nao1215/wikigraph/internal/index"
	wikilog "github.com/nao1215/wikigraph/internal/log"
)

// NewIndexCmd creates the index command.
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [listing-file]",
		Short: "Build the SQLite offset index from an archive listing",
		Long: `Index parses a multistream archive listing (one "offset:id:title" line
per article) and builds the SQLite offset index used by crawl and
extract. End offsets are derived from the next distinct stream offset;
the final stream uses a sentinel meaning read-to-end.

Examples:
  # Build the index in the default data directory
  wikigraph index dump-index.txt

  # Build the index at an explicit path
  wikigraph index -o index.db dump-index.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runIndexCmd,
	}

	cmd.Flags().StringP("output", "o", "", "Output index database path (default: XDG data directory)")

	return cmd
}

// runIndexCmd executes the index command.
func runIndexCmd(cmd *cobra.Command, args []string) error {
	listingPath := args[0]

	dbPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = filepath.Join(config.XDGDataDir(), "index.db")
	}

	logger := wikilog.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	logger.Info("building offset index", "listing", listingPath, "output", dbPath)
	if err := index.Build(cmd.Context(), listingPath, dbPath, logger); err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	idx, err := index.Open(dbPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	count, err := idx.Count(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d articles into %s\n", count, dbPath)
	return nil
}
