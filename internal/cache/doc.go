// Package cache provides the classification cache: a key-value store
// of document identity to boolean classification verdict.
//
// Two implementations ship: Redis for persistent caches shared across
// runs, and Memory for tests and one-off runs. Both satisfy the Cache
// interface the crawl engine is written against.
package cache
