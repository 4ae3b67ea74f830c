package crawler

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/wikigraph/internal/cache"
	"github.com/nao1215/wikigraph/internal/classify"
	"github.com/nao1215/wikigraph/internal/graph"
	"github.com/nao1215/wikigraph/internal/model"
)

// Retriever resolves titles and reconstructs documents from the
// archive. Implemented by archive.Extractor; tests supply fakes.
type Retriever interface {
	// Resolve returns the canonical identity recorded for a title.
	Resolve(ctx context.Context, title string) (model.DocumentIdentity, error)

	// Retrieve reconstructs the document registered for a title.
	Retrieve(ctx context.Context, title string) (model.ExtractedDocument, error)
}

// Parser turns an extracted document into a structured article record.
// The engine depends only on the outgoing link list and the identity
// fields; everything else is opaque payload for the classifier.
type Parser interface {
	Parse(doc model.ExtractedDocument) (*model.Article, error)
}

// defaultAcceptBound matches the quota of the original graph builder.
const defaultAcceptBound = 150

// Engine performs the bounded breadth-first crawl: it pops queued
// articles, walks their outgoing links, classifies each link (from the
// cache when possible, by extraction otherwise), and registers
// accepted links as graph nodes and edges until the acceptance bound
// is reached or the queue drains.
//
// The engine is single-threaded and synchronous. Extraction,
// classification, and registration for one link complete before the
// next link is considered; the archive file handle inside the
// Retriever cannot tolerate interleaved reads.
type Engine struct {
	// retriever extracts documents from the archive.
	retriever Retriever

	// parser turns raw documents into article records.
	parser Parser

	// classifier renders accept/reject verdicts.
	classifier classify.Classifier

	// cache stores verdicts by document identity.
	cache cache.Cache

	// store registers graph nodes and edges.
	store graph.Store

	// bound is the acceptance quota that terminates the crawl.
	bound int

	// logger is used for structured logging.
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithAcceptBound sets the acceptance quota.
func WithAcceptBound(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.bound = n
		}
	}
}

// WithEngineLogger sets a custom logger for the engine.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a crawl engine. All collaborators are injected;
// the engine has no knowledge of wikitext, Redis, or SQLite.
func NewEngine(retriever Retriever, parser Parser, classifier classify.Classifier, c cache.Cache, store graph.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		retriever:  retriever,
		parser:     parser,
		classifier: classifier,
		cache:      c,
		store:      store,
		bound:      defaultAcceptBound,
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// queueNode is one entry of the crawl queue. article is nil when the
// node was registered from a cached positive verdict without being
// extracted in this run; such nodes carry no link list and are skipped
// when popped; the cache hit means their links were walked when they
// were first classified.
type queueNode struct {
	article *model.Article
	handle  int64
}

// crawlState is the per-run working state. It lives on the stack of
// one Run call; the engine itself holds no crawl state and can run
// again with fresh seeds.
type crawlState struct {
	queue    []*queueNode
	accepted int

	// visited maps page id to graph handle. Identity is the page id,
	// never the title: distinct documents can share a title, and
	// dedup by title would silently drop one of them.
	visited map[string]int64

	result *model.CrawlResult
}

// Run crawls from the seed titles until the acceptance bound is
// reached or the queue drains. Draining first is a normal outcome;
// the graph is simply smaller than the quota.
//
// Seeds bypass classification: they are trusted positive by
// construction. A seed that fails extraction is logged and skipped.
//
// The only error Run returns is context cancellation; per-link
// failures are downgraded to negative classifications and recorded in
// the result, so a single bad link can never abort the crawl.
func (e *Engine) Run(ctx context.Context, seeds []string) (*model.CrawlResult, error) {
	st := &crawlState{
		visited: make(map[string]int64),
		result: &model.CrawlResult{
			Seeds:       seeds,
			AcceptBound: e.bound,
			StartedAt:   time.Now(),
		},
	}

	for _, seed := range seeds {
		if err := e.enqueueSeed(ctx, st, seed); err != nil {
			e.logger.Warn("seed skipped", "title", seed, "error", err)
			st.result.LinkErrors = append(st.result.LinkErrors, model.LinkError{Title: seed, Reason: err.Error()})
		}
	}

	for len(st.queue) > 0 && st.accepted < e.bound {
		if err := ctx.Err(); err != nil {
			e.finish(st)
			return st.result, err
		}

		node := st.queue[0]
		st.queue = st.queue[1:]

		if node.article == nil {
			// Registered from a replayed verdict, never parsed in this
			// run: nothing to expand.
			continue
		}

		for _, link := range node.article.OutgoingLinks {
			e.processLink(ctx, st, node, link)
		}
	}

	e.finish(st)
	return st.result, nil
}

// enqueueSeed extracts, registers, and enqueues one seed title.
func (e *Engine) enqueueSeed(ctx context.Context, st *crawlState, seed string) error {
	ident, err := e.retriever.Resolve(ctx, seed)
	if err != nil {
		return err
	}

	article, err := e.extractArticle(ctx, seed)
	if err != nil {
		return err
	}

	handle, err := e.store.AddNode(ctx, nodeProps(ident))
	if err != nil {
		return err
	}
	st.result.NodesRegistered++

	if err := e.cache.Set(ctx, ident.PageID, true); err != nil {
		e.logger.Warn("classification cache write failed", "pageID", ident.PageID, "error", err)
	}

	st.visited[ident.PageID] = handle
	st.queue = append(st.queue, &queueNode{article: article, handle: handle})
	e.logger.Debug("seed registered", "title", seed, "pageID", ident.PageID)
	return nil
}

// processLink handles one outgoing link of the popped node: consult
// the cache, classify by extraction on a miss, and register positives.
// Failures fail open to a negative verdict.
func (e *Engine) processLink(ctx context.Context, st *crawlState, from *queueNode, link string) {
	ident, err := e.retriever.Resolve(ctx, link)
	if err != nil {
		e.recordLinkFailure(st, link, err)
		return
	}

	verdict, replayed, err := e.cache.Get(ctx, ident.PageID)
	if err != nil {
		e.logger.Warn("classification cache read failed", "pageID", ident.PageID, "error", err)
		replayed = false
	}

	var article *model.Article
	if replayed {
		// Replay, not new work: the counter does not move.
		st.result.CacheHits++
	} else {
		article, err = e.extractArticle(ctx, link)
		if err != nil {
			// Fail open to "not accepted" and keep crawling.
			verdict = false
			e.recordLinkFailure(st, link, err)
		} else {
			verdict = e.classifier.Classify(article)
			if verdict {
				st.accepted++
			}
		}

		if cerr := e.cache.Set(ctx, ident.PageID, verdict); cerr != nil {
			e.logger.Warn("classification cache write failed", "pageID", ident.PageID, "error", cerr)
		}
	}

	if !verdict {
		return
	}

	handle, seen := st.visited[ident.PageID]
	if !seen {
		handle, err = e.store.AddNode(ctx, nodeProps(ident))
		if err != nil {
			e.recordLinkFailure(st, link, err)
			return
		}
		st.result.NodesRegistered++
		st.visited[ident.PageID] = handle

		// article is nil on a replayed verdict; the node still joins
		// the queue so its handle exists for edges, but it expands to
		// nothing when popped.
		st.queue = append(st.queue, &queueNode{article: article, handle: handle})
	}

	if err := e.store.AddEdge(ctx, from.handle, handle); err != nil {
		e.logger.Warn("edge registration failed", "from", from.handle, "to", handle, "error", err)
		return
	}
	st.result.EdgesRegistered++
}

// extractArticle retrieves and parses one title.
func (e *Engine) extractArticle(ctx context.Context, title string) (*model.Article, error) {
	doc, err := e.retriever.Retrieve(ctx, title)
	if err != nil {
		return nil, err
	}
	return e.parser.Parse(doc)
}

// recordLinkFailure logs a per-link failure and records it in the
// result. The failure has already been downgraded to a negative
// classification by the caller.
func (e *Engine) recordLinkFailure(st *crawlState, title string, err error) {
	e.logger.Warn("link classified negative after failure", "title", title, "error", err)
	st.result.LinkErrors = append(st.result.LinkErrors, model.LinkError{Title: title, Reason: err.Error()})
}

// finish stamps the result's terminal fields.
func (e *Engine) finish(st *crawlState) {
	st.result.Accepted = st.accepted
	st.result.QueueDrained = st.accepted < e.bound
	st.result.FinishedAt = time.Now()
}

// nodeProps builds the graph property record for a document identity.
// The record is deliberately minimal and derived only from the index
// identity, so the fresh-extraction path and the cache-replay path
// produce byte-identical records and AddNode idempotency holds
// between them.
func nodeProps(ident model.DocumentIdentity) map[string]string {
	return map[string]string{
		"page_id": ident.PageID,
		"title":   ident.Title,
	}
}
