// Package log provides logging helpers built on the standard slog
// package.
//
// The TruncateHandler caps the length of attribute values before they
// reach the underlying handler. wikigraph moves multi-megabyte article
// bodies around; logging one of them unbounded would drown the log and
// defeat the point of the warning it accompanies.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Warn("scan finished without a match",
//	    "title", title,
//	    "block", blockText, // capped, never megabytes
//	)
package log
