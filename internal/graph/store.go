package graph

import "context"

// Store registers nodes and directed edges of the crawl graph.
//
// AddNode is idempotent by contract: two calls with identical property
// records resolve to the same handle. The crawl engine leans on that
// guarantee when a cached verdict reports a node as already seen; it
// simply re-registers and receives the original handle.
type Store interface {
	// AddNode registers a node described by the given properties and
	// returns its handle. Identical property records always resolve to
	// the same handle.
	AddNode(ctx context.Context, props map[string]string) (int64, error)

	// AddEdge registers a directed edge between two node handles.
	// Registering the same edge twice is a no-op.
	AddEdge(ctx context.Context, from, to int64) error
}
