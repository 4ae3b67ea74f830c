package model

import (
	"testing"
	"time"
)

// TestCrawlResultDuration tests wall-clock duration calculation.
func TestCrawlResultDuration(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	r := &CrawlResult{
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
	}
	if r.Duration() != 90*time.Second {
		t.Errorf("expected 90s, got %s", r.Duration())
	}
}

// TestCrawlResultBoundReached tests terminal outcome classification.
func TestCrawlResultBoundReached(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		accepted int
		bound    int
		want     bool
	}{
		{name: "under bound", accepted: 10, bound: 150, want: false},
		{name: "at bound", accepted: 150, bound: 150, want: true},
		{name: "over bound", accepted: 151, bound: 150, want: true},
		{name: "empty run", accepted: 0, bound: 1, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := &CrawlResult{Accepted: tt.accepted, AcceptBound: tt.bound}
			if got := r.BoundReached(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestArticleIsRedirect tests redirect detection.
func TestArticleIsRedirect(t *testing.T) {
	t.Parallel()

	if (&Article{Title: "Trane", RedirectTo: "John Coltrane"}).IsRedirect() == false {
		t.Error("expected redirect article")
	}
	if (&Article{Title: "John Coltrane"}).IsRedirect() {
		t.Error("expected ordinary article")
	}
}
