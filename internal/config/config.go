package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
// Where applicable the defaults match the behavior of the original
// music-industry graph builder this tool grew out of.
const (
	// DefaultAcceptBound is the default acceptance quota: the crawl
	// stops once this many links have been newly classified positive.
	DefaultAcceptBound = 150

	// DefaultRecentDocuments is the number of recently extracted
	// documents the archive extractor keeps as a convenience cache.
	// The cache is purely an optimization; correctness never depends
	// on it. Documents can be tens of megabytes, so the bound is low.
	DefaultRecentDocuments = 16

	// DefaultRedisAddress is the default classification cache address.
	// We use 127.0.0.1 instead of localhost to avoid DNS resolution
	// overhead and IPv6 resolution quirks on some systems.
	DefaultRedisAddress = "127.0.0.1:6379"

	// AppName is the application name used for XDG directory paths.
	AppName = "wikigraph"
)

// Config holds all configuration options for wikigraph.
// It is populated from CLI flags and the optional YAML config file,
// then passed through the application via dependency injection rather
// than global state.
type Config struct {
	// ArchivePath is the path to the multistream bzip2 archive file.
	// Required for crawl and extract commands.
	ArchivePath string

	// IndexPath is the path to the SQLite offset index built by the
	// index command. Required for crawl and extract commands.
	IndexPath string

	// DataDir is the directory holding the graph store database.
	// Defaults to the XDG data directory.
	DataDir string

	// Seeds are the seed article titles the crawl starts from.
	// Seeds bypass classification; they are trusted positive.
	Seeds []string

	// AcceptBound is the acceptance quota that terminates the crawl.
	AcceptBound int

	// ClassifierPatterns are regular expressions matched against an
	// article's categories and plain text. An article matching any
	// pattern is classified positive.
	ClassifierPatterns []string

	// RedisAddress is the classification cache address in "host:port"
	// format. Ignored when MemoryCache is true.
	RedisAddress string

	// RedisPassword is the optional Redis AUTH password.
	RedisPassword string

	// RedisDB is the Redis logical database number.
	RedisDB int

	// MemoryCache replaces the Redis classification cache with an
	// in-process map. Classifications are then lost when the process
	// exits, which is fine for one-off runs and tests.
	MemoryCache bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of the
	// human-readable format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the crawl report.
	// When empty the report is written to stdout.
	ReportFile string

	// ConfigFilePath is the path to the YAML configuration file.
	// If empty, the tool searches for .wikigraph in the current
	// directory and then in the user's home directory.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
// Users override specific values after creation, typically from CLI
// flags and the config file.
func NewConfig() *Config {
	return &Config{
		AcceptBound:  DefaultAcceptBound,
		RedisAddress: DefaultRedisAddress,
		DataDir:      XDGDataDir(),
	}
}

// Validate checks if the configuration is valid for a crawl run.
func (c *Config) Validate() error {
	if c.ArchivePath == "" {
		return ErrNoArchive
	}
	if c.IndexPath == "" {
		return ErrNoIndex
	}
	if len(c.Seeds) == 0 {
		return ErrNoSeeds
	}
	if c.AcceptBound <= 0 {
		return ErrInvalidBound
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// XDGDataDir returns the XDG data directory for wikigraph.
// On Linux: ~/.local/share/wikigraph
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for wikigraph.
// On Linux: ~/.cache/wikigraph
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}
