package cache

import "context"

// Cache stores classification verdicts keyed by document identity
// (page id). It lets the crawl engine skip re-extracting and
// re-classifying documents it has already judged, including across
// runs when the backing store persists.
//
// The cache is externally synchronized: classification is a pure
// function of document identity, so concurrent writers racing on the
// same key all write the same value and the last write is as good as
// any other.
type Cache interface {
	// Get returns the stored verdict for a page id. The second return
	// value reports whether a verdict was present; absence is not an
	// error.
	Get(ctx context.Context, pageID string) (verdict bool, ok bool, err error)

	// Set stores the verdict for a page id, overwriting any previous
	// value. No TTL is applied at this layer.
	Set(ctx context.Context, pageID string, verdict bool) error
}
