package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/nao1215/wikigraph/internal/graph"
)

// TestNewStatsCmd tests the stats command creation.
func TestNewStatsCmd(t *testing.T) {
	t.Parallel()

	cmd := NewStatsCmd()

	if cmd.Use != "stats" {
		t.Errorf("expected use 'stats', got %q", cmd.Use)
	}
	if cmd.Flags().Lookup("data-dir") == nil {
		t.Error("expected data-dir flag")
	}
	if flag := cmd.Flags().Lookup("top"); flag == nil || flag.DefValue != "10" {
		t.Error("expected top flag with default 10")
	}
}

// TestRunStatsCmd tests stats output against a populated store.
func TestRunStatsCmd(t *testing.T) {
	t.Run("prints totals and most-linked articles", func(t *testing.T) {
		dataDir := t.TempDir()
		store, err := graph.Open(dataDir, graph.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open graph store: %v", err)
		}

		ctx := context.Background()
		hub, _ := store.AddNode(ctx, map[string]string{"page_id": "1", "title": "Miles Davis"})
		leaf, _ := store.AddNode(ctx, map[string]string{"page_id": "2", "title": "John Coltrane"})
		if err := store.AddEdge(ctx, hub, leaf); err != nil {
			t.Fatalf("failed to add edge: %v", err)
		}
		store.Close()

		cmd := NewStatsCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--data-dir", dataDir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "Nodes: 2") || !strings.Contains(out, "Edges: 1") {
			t.Errorf("totals missing from output: %q", out)
		}
		if !strings.Contains(out, "Miles Davis (1 links)") {
			t.Errorf("most-linked listing missing: %q", out)
		}
	})

	t.Run("missing database fails instead of creating one", func(t *testing.T) {
		cmd := NewStatsCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--data-dir", t.TempDir()})

		if err := cmd.Execute(); err == nil {
			t.Fatal("expected error for missing graph database")
		}
	})
}
