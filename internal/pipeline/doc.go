// Package pipeline sequences the stages of a crawl run (the crawl
// itself and the post-crawl bookkeeping) over a shared result record.
//
// The step abstraction keeps the crawl command small: the command
// wires collaborators together, builds a pipeline, and renders the
// result it gets back.
package pipeline
