// Package graph persists the crawl graph: accepted articles as nodes
// and the links between them as directed edges.
//
// Nodes are content-addressed by a hash of their property record, so
// registration is idempotent: registering the same article twice
// yields the same handle. The SQLite backing keeps the whole system a
// single self-contained binary with no external graph database.
package graph
