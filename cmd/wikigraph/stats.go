package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikigraph/internal/config"
	"github.com/nao1215/wikigraph/internal/graph"
)

// defaultTopLinked is the number of most-linked articles shown.
const defaultTopLinked = 10

// NewStatsCmd creates the stats command.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals and most-linked articles for the crawled graph",
		Long: `Stats opens the graph database written by crawl and prints node and
edge totals plus the articles with the most outgoing links.

Examples:
  # Stats for the default data directory
  wikigraph stats

  # Stats for an explicit data directory, top 25 articles
  wikigraph stats --data-dir ./data --top 25`,
		Args: cobra.NoArgs,
		RunE: runStatsCmd,
	}

	cmd.Flags().String("data-dir", "",
		"Directory holding the graph database (default: XDG data directory)")
	cmd.Flags().Int("top", defaultTopLinked, "Number of most-linked articles to show")

	return cmd
}

// runStatsCmd executes the stats command.
func runStatsCmd(cmd *cobra.Command, _ []string) error {
	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = config.XDGDataDir()
	}
	top, err := cmd.Flags().GetInt("top")
	if err != nil {
		return err
	}

	opts := graph.DefaultOptions()
	opts.CreateIfNotExists = false
	store, err := graph.Open(dataDir, opts)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Nodes: %d\n", stats.Nodes)
	fmt.Fprintf(out, "Edges: %d\n", stats.Edges)

	if top <= 0 || stats.Edges == 0 {
		return nil
	}

	degrees, err := store.TopLinked(ctx, top)
	if err != nil {
		return err
	}
	if len(degrees) == 0 {
		return nil
	}

	fmt.Fprintf(out, "\nMost linked articles:\n")
	for i, nd := range degrees {
		title := nd.Properties["title"]
		if title == "" {
			title = fmt.Sprintf("node %d", nd.ID)
		}
		fmt.Fprintf(out, "  %2d. %s (%d links)\n", i+1, title, nd.OutDegree)
	}
	return nil
}
