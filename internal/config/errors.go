package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Package-level sentinels let callers use errors.Is while keeping the
// messages human-readable.
var (
	// ErrNoArchive is returned when no archive file path is configured.
	ErrNoArchive = errors.New("no archive file specified: use --archive or the config file")

	// ErrNoIndex is returned when no offset index path is configured.
	// The index is built once with "wikigraph index".
	ErrNoIndex = errors.New("no offset index specified: use --index or the config file")

	// ErrNoSeeds is returned when the crawl has no seed titles.
	ErrNoSeeds = errors.New("no seed titles specified: pass titles as arguments or set seeds in the config file")

	// ErrInvalidBound is returned when the acceptance bound is not positive.
	// A bound of zero would terminate the crawl before any link is examined.
	ErrInvalidBound = errors.New("invalid acceptance bound: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
