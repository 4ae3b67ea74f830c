// Package model defines the core data types shared across wikigraph:
// extracted documents, parsed articles, and crawl results.
//
// Types in this package are plain data holders with no behavior beyond
// small convenience methods. They deliberately have no dependencies on
// other wikigraph packages so that every layer (archive, crawler, report)
// can exchange them freely.
package model
