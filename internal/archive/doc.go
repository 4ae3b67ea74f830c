// Package archive extracts single documents from the multistream bzip2
// archive.
//
// The archive is a sequence of independently decompressable bzip2
// streams, each holding a bounded run of <page> documents. The offset
// index (package index) records the byte range of the stream that
// contains a given title. Extraction reads exactly that range,
// decompresses it as one unit, and runs a streaming tag scanner over
// the result to isolate the one document whose identifier matches,
// because a decompressed block routinely contains neighboring
// documents and truncated fragments.
//
// The scanner is a two-state machine (searching, done) over XML token
// events. It reconstructs the document's text rather than slicing the
// original bytes: tags are re-serialized with stable attribute order
// and quoting, so the output round-trips for well-formed input but is
// not byte-identical to the dump.
package archive
