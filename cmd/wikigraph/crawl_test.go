package main

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wikigraph/internal/config"
	"github.com/nao1215/wikigraph/internal/model"
)

// TestNewCrawlCmd tests the crawl command creation.
func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "crawl [seed-title]..." {
			t.Errorf("expected use 'crawl [seed-title]...', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		shorthands := map[string]string{
			"archive":  "a",
			"index":    "i",
			"bound":    "b",
			"config":   "c",
			"json":     "j",
			"markdown": "m",
			"output":   "o",
		}
		for name, short := range shorthands {
			flag := cmd.Flags().Lookup(name)
			if flag == nil {
				t.Errorf("expected %s flag", name)
				continue
			}
			if flag.Shorthand != short {
				t.Errorf("expected %s shorthand %q, got %q", name, short, flag.Shorthand)
			}
		}
		for _, name := range []string{"data-dir", "redis", "memory-cache"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("bound defaults to the standard quota", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("bound")
		if flag == nil {
			t.Fatal("expected bound flag")
		}
		if flag.DefValue != "150" {
			t.Errorf("expected default bound 150, got %q", flag.DefValue)
		}
	})
}

// TestBuildCrawlConfig tests flag and config-file merging.
func TestBuildCrawlConfig(t *testing.T) {
	t.Run("flags populate the config", func(t *testing.T) {
		cmd := NewCrawlCmd()
		if err := cmd.Flags().Parse([]string{
			"-a", "dump.bz2", "-i", "index.db", "-b", "25", "--memory-cache",
		}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildCrawlConfig(cmd, []string{"Miles Davis", "Jazz"})
		if err != nil {
			t.Fatalf("failed to build config: %v", err)
		}

		if cfg.ArchivePath != "dump.bz2" || cfg.IndexPath != "index.db" {
			t.Errorf("paths not applied: %+v", cfg)
		}
		if cfg.AcceptBound != 25 {
			t.Errorf("expected bound 25, got %d", cfg.AcceptBound)
		}
		if !cfg.MemoryCache {
			t.Error("expected memory cache enabled")
		}
		if !reflect.DeepEqual(cfg.Seeds, []string{"Miles Davis", "Jazz"}) {
			t.Errorf("seeds not taken from args: %v", cfg.Seeds)
		}
	})

	t.Run("config file fills fields flags left unset", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), ".wikigraph")
		content := "archive: file.bz2\nindex: file.db\nseeds:\n  - File Seed\naccept_bound: 7\n"
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		cmd := NewCrawlCmd()
		if err := cmd.Flags().Parse([]string{"-c", configPath, "-a", "flag.bz2"}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		cfg, err := buildCrawlConfig(cmd, nil)
		if err != nil {
			t.Fatalf("failed to build config: %v", err)
		}

		if cfg.ArchivePath != "flag.bz2" {
			t.Errorf("flag value overwritten by file: %q", cfg.ArchivePath)
		}
		if cfg.IndexPath != "file.db" {
			t.Errorf("file value not applied: %q", cfg.IndexPath)
		}
		if !reflect.DeepEqual(cfg.Seeds, []string{"File Seed"}) {
			t.Errorf("file seeds not applied: %v", cfg.Seeds)
		}
		if cfg.AcceptBound != 7 {
			t.Errorf("file bound not applied: %d", cfg.AcceptBound)
		}
	})

	t.Run("explicitly named missing config file is an error", func(t *testing.T) {
		cmd := NewCrawlCmd()
		missing := filepath.Join(t.TempDir(), "nope.yaml")
		if err := cmd.Flags().Parse([]string{"-c", missing}); err != nil {
			t.Fatalf("failed to parse flags: %v", err)
		}

		if _, err := buildCrawlConfig(cmd, nil); err == nil {
			t.Fatal("expected error for missing explicit config file")
		}
	})
}

// TestNewCacheSelection tests cache backend selection.
func TestNewCacheSelection(t *testing.T) {
	t.Parallel()

	t.Run("memory cache needs no server", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.MemoryCache = true

		c, cleanup, err := newCache(cfg)
		if err != nil {
			t.Fatalf("failed to create memory cache: %v", err)
		}
		defer cleanup()
		if c == nil {
			t.Fatal("expected a cache instance")
		}
	})

	t.Run("empty redis address fails", func(t *testing.T) {
		t.Parallel()

		cfg := config.NewConfig()
		cfg.RedisAddress = ""

		if _, _, err := newCache(cfg); err == nil {
			t.Fatal("expected error for empty Redis address")
		}
	})
}

// TestWriteReport tests format selection and file output.
func TestWriteReport(t *testing.T) {
	result := &model.CrawlResult{
		Seeds:       []string{"Miles Davis"},
		AcceptBound: 10,
		Accepted:    3,
		StartedAt:   time.Now(),
		FinishedAt:  time.Now(),
	}

	t.Run("writes JSON report to file", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.JSONReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "out", "report.json")

		if err := writeReport(cfg, result); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !bytes.Contains(content, []byte(`"accepted": 3`)) {
			t.Errorf("unexpected JSON report: %s", content)
		}
	})

	t.Run("writes markdown report to file", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.MarkdownReport = true
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.md")

		if err := writeReport(cfg, result); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "# wikigraph Crawl Report") {
			t.Errorf("unexpected markdown report: %s", content)
		}
	})

	t.Run("default format is plain text", func(t *testing.T) {
		cfg := config.NewConfig()
		cfg.ReportFile = filepath.Join(t.TempDir(), "report.txt")

		if err := writeReport(cfg, result); err != nil {
			t.Fatalf("failed to write report: %v", err)
		}

		content, err := os.ReadFile(cfg.ReportFile)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "wikigraph crawl report") {
			t.Errorf("unexpected plain report: %s", content)
		}
	})
}
