package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikigraph/internal/archive"
	"github.com/nao1215/wikigraph/internal/cache"
	"github.com/nao1215/wikigraph/internal/classify"
	"github.com/nao1215/wikigraph/internal/config"
	"github.com/nao1215/wikigraph/internal/crawler"
	"github.com/nao1215/wikigraph/internal/graph"
	"github.com/nao1215/wikigraph/internal/index"
	wikilog "github.com/nao1215/wikigraph/internal/log"
	"github.com/nao1215/wikigraph/internal/model"
	"github.com/nao1215/wikigraph/internal/pipeline"
	"github.com/nao1215/wikigraph/internal/report"
	"github.com/nao1215/wikigraph/internal/wikitext"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [seed-title]...",
		Short: "Crawl the article link graph from seed articles",
		Long: `Crawl performs a bounded breadth-first traversal of the article link
graph. Starting from the seed articles (trusted positive by construction),
it extracts each linked article from the archive, classifies it, and
registers accepted articles as graph nodes and edges. The crawl stops when
the acceptance quota is reached or no unvisited links remain.

Classification verdicts are cached by page id, so repeated runs against
the same Redis instance skip already-classified articles.

Examples:
  # Crawl from one seed with defaults from the .wikigraph config file
  wikigraph crawl "Miles Davis"

  # Explicit archive and index, quota of 50 accepted articles
  wikigraph crawl -a dump.xml.bz2 -i index.db -b 50 "Miles Davis"

  # One-off run without Redis
  wikigraph crawl --memory-cache "Miles Davis"

  # Markdown report written to a file
  wikigraph crawl -m -o report.md "Miles Davis"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Input flags
	cmd.Flags().StringP("archive", "a", "", "Path to the multistream bzip2 archive")
	cmd.Flags().StringP("index", "i", "", "Path to the SQLite offset index")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wikigraph in current or home directory)")

	// Crawl behavior flags
	cmd.Flags().IntP("bound", "b", config.DefaultAcceptBound,
		"Acceptance quota that terminates the crawl")
	cmd.Flags().String("data-dir", "",
		"Directory for the graph database (default: XDG data directory)")

	// Classification cache flags
	cmd.Flags().String("redis", config.DefaultRedisAddress,
		"Redis address for the classification cache")
	cmd.Flags().Bool("memory-cache", false,
		"Use an in-process classification cache instead of Redis")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCrawlConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := wikilog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Signal handling for graceful shutdown between units of work.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildCrawlConfig creates a Config from cobra command flags and the
// optional configuration file. Flags win over file values.
func buildCrawlConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Seeds = args

	var err error
	if cfg.ArchivePath, err = cmd.Flags().GetString("archive"); err != nil {
		return nil, err
	}
	if cfg.IndexPath, err = cmd.Flags().GetString("index"); err != nil {
		return nil, err
	}
	if cfg.AcceptBound, err = cmd.Flags().GetInt("bound"); err != nil {
		return nil, err
	}
	if cfg.RedisAddress, err = cmd.Flags().GetString("redis"); err != nil {
		return nil, err
	}
	if cfg.MemoryCache, err = cmd.Flags().GetBool("memory-cache"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	dataDir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	// Merge the config file. An explicitly named file must exist; the
	// default search silently falls back to flag values only.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// runCrawl wires the collaborators together and executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seeds", cfg.Seeds,
		"bound", cfg.AcceptBound,
		"archive", cfg.ArchivePath,
	)

	idx, err := index.Open(cfg.IndexPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	extractor, err := archive.New(cfg.ArchivePath, idx,
		archive.WithLogger(logger),
		archive.WithRecentDocuments(config.DefaultRecentDocuments),
	)
	if err != nil {
		return err
	}
	defer extractor.Close()

	store, err := graph.Open(cfg.DataDir, graph.DefaultOptions())
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("graph database opened", "dir", cfg.DataDir)

	verdictCache, closeCache, err := newCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	classifier, err := classify.NewPatternClassifier(cfg.ClassifierPatterns)
	if err != nil {
		return err
	}

	engine := crawler.NewEngine(
		extractor,
		wikitext.NewParser(),
		classifier,
		verdictCache,
		store,
		crawler.WithAcceptBound(cfg.AcceptBound),
		crawler.WithEngineLogger(logger),
	)

	result := &model.CrawlResult{}
	p := pipeline.New(
		[]pipeline.Step{
			pipeline.NewCrawlStep(engine, cfg.Seeds),
			pipeline.NewGraphStatsStep(store),
		},
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)
	if err := p.Run(ctx, result); err != nil {
		// A cancelled crawl still produced a partial result worth
		// reporting; anything else is surfaced after the report.
		logger.Warn("crawl finished with error", "error", err)
	}

	return writeReport(cfg, result)
}

// newCache builds the configured classification cache. The returned
// cleanup function is a no-op for the in-memory cache.
func newCache(cfg *config.Config) (cache.Cache, func(), error) {
	if cfg.MemoryCache {
		return cache.NewMemory(), func() {}, nil
	}

	r, err := cache.NewRedis(cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect classification cache: %w", err)
	}
	return r, func() { _ = r.Close() }, nil
}

// writeReport renders the crawl result in the configured format.
func writeReport(cfg *config.Config, result *model.CrawlResult) error {
	out := os.Stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out)
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
