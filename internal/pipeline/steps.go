package pipeline

import (
	"context"

	"github.com/nao1215/wikigraph/internal/crawler"
	"github.com/nao1215/wikigraph/internal/graph"
	"github.com/nao1215/wikigraph/internal/model"
)

// CrawlStep runs the breadth-first crawl and copies the engine's
// result into the shared pipeline result.
type CrawlStep struct {
	// engine performs the crawl.
	engine *crawler.Engine

	// seeds are the seed article titles.
	seeds []string
}

// NewCrawlStep creates the crawl step.
func NewCrawlStep(engine *crawler.Engine, seeds []string) *CrawlStep {
	return &CrawlStep{engine: engine, seeds: seeds}
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl. Even a cancelled crawl leaves its partial
// result in place so the remaining steps can report what was done.
func (s *CrawlStep) Do(ctx context.Context, result *model.CrawlResult) error {
	res, err := s.engine.Run(ctx, s.seeds)
	if res != nil {
		*result = *res
	}
	return err
}

// GraphStatsStep reads the graph store totals into the result after
// the crawl, covering nodes and edges accumulated across all runs
// against the same store.
type GraphStatsStep struct {
	// store is the graph database.
	store *graph.DB
}

// NewGraphStatsStep creates the stats step.
func NewGraphStatsStep(store *graph.DB) *GraphStatsStep {
	return &GraphStatsStep{store: store}
}

// Name returns the step name.
func (s *GraphStatsStep) Name() string {
	return "graph_stats"
}

// Do reads totals from the graph store.
func (s *GraphStatsStep) Do(ctx context.Context, result *model.CrawlResult) error {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return err
	}
	result.GraphNodes = stats.Nodes
	result.GraphEdges = stats.Edges
	return nil
}
