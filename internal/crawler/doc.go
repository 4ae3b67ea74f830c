// Package crawler implements the bounded breadth-first crawl over the
// article link graph.
//
// The engine orchestrates five injected collaborators: a Retriever
// (archive extraction), a Parser (structured records), a Classifier
// (accept/reject verdicts), a classification Cache, and a graph Store.
// It visits articles in strict FIFO order, processes each article's
// links in parser emission order, and terminates when the acceptance
// counter reaches the configured bound or the queue drains.
//
// Per-link failures of any kind (missing titles, corrupt spans,
// parse errors) are downgraded to negative classifications and
// logged; only context cancellation stops a running crawl early.
package crawler
