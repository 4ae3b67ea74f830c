package model

import "time"

// CrawlResult summarizes one crawl run. It is filled in by the crawl
// engine and the pipeline steps, then rendered by the report writers.
type CrawlResult struct {
	// Seeds are the seed titles the crawl started from.
	Seeds []string `json:"seeds"`

	// AcceptBound is the configured acceptance quota.
	AcceptBound int `json:"accept_bound"`

	// Accepted is the final acceptance counter: the number of links
	// that were newly classified positive during this run. Cache
	// replays do not count.
	Accepted int `json:"accepted"`

	// NodesRegistered is the number of graph node registrations the
	// engine issued. Because registration is idempotent this can
	// exceed the number of distinct nodes in the store.
	NodesRegistered int `json:"nodes_registered"`

	// EdgesRegistered is the number of directed edges registered.
	EdgesRegistered int `json:"edges_registered"`

	// CacheHits counts links answered from the classification cache.
	CacheHits int `json:"cache_hits"`

	// QueueDrained is true when the crawl ended because the queue
	// emptied before the acceptance bound was reached. This is a
	// normal outcome, not an error.
	QueueDrained bool `json:"queue_drained"`

	// LinkErrors records per-link failures that were downgraded to a
	// negative classification. The crawl never aborts on these.
	LinkErrors []LinkError `json:"link_errors,omitempty"`

	// GraphNodes and GraphEdges are the totals in the graph store
	// after the run, across all runs that wrote to the same store.
	GraphNodes int64 `json:"graph_nodes"`
	GraphEdges int64 `json:"graph_edges"`

	// StartedAt and FinishedAt bound the crawl wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// LinkError is one link that failed extraction, parsing, or
// classification and was treated as classified-negative.
type LinkError struct {
	// Title is the link target that failed.
	Title string `json:"title"`

	// Reason is the error message.
	Reason string `json:"reason"`
}

// Duration returns the crawl wall-clock duration.
func (r *CrawlResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// BoundReached reports whether the crawl stopped because the
// acceptance bound was reached.
func (r *CrawlResult) BoundReached() bool {
	return r.Accepted >= r.AcceptBound
}
