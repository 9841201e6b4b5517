package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/kerbaras/yomu/pkg/services"
)

func TestNewProgressTracker(t *testing.T) {
	tracker := NewProgressTracker(80)

	if tracker.width != 80 {
		t.Errorf("Expected width 80, got %d", tracker.width)
	}
	if tracker.HasActive() {
		t.Error("Expected no active prefetches initially")
	}
}

func TestUpdateRemovesCompleted(t *testing.T) {
	tracker := NewProgressTracker(80)

	progress := services.PrefetchProgress{
		ChapterID:   "ch-1",
		Status:      services.StatusDownloading,
		CurrentPage: 5,
		TotalPages:  10,
	}
	tracker.Update(progress)
	if len(tracker.prefetches) != 1 {
		t.Fatalf("Expected 1 prefetch, got %d", len(tracker.prefetches))
	}

	progress.Status = services.StatusComplete
	tracker.Update(progress)
	if tracker.HasActive() {
		t.Errorf("Expected completed prefetch to be removed, got %d", len(tracker.prefetches))
	}
}

func TestUpdateKeepsError(t *testing.T) {
	tracker := NewProgressTracker(80)

	tracker.Update(services.PrefetchProgress{ChapterID: "ch-1", Status: services.StatusError, Error: errors.New("404")})
	tracker.Update(services.PrefetchProgress{ChapterID: "ch-1", Status: services.StatusDownloading, CurrentPage: 3, TotalPages: 4})

	got := tracker.prefetches["ch-1"]
	if got.Status != services.StatusError || got.Error == nil {
		t.Errorf("Expected error to stick, got %+v", got)
	}
	if got.CurrentPage != 3 {
		t.Errorf("Expected page count to advance, got %d", got.CurrentPage)
	}
}

func TestClear(t *testing.T) {
	tracker := NewProgressTracker(80)
	for _, id := range []string{"a", "b", "c"} {
		tracker.Update(services.PrefetchProgress{ChapterID: id, Status: services.StatusDownloading})
	}
	if len(tracker.prefetches) != 3 {
		t.Errorf("Expected 3 prefetches, got %d", len(tracker.prefetches))
	}

	tracker.Clear()
	if tracker.HasActive() {
		t.Error("Expected no active prefetches after clear")
	}
}

func TestViewEmpty(t *testing.T) {
	if view := NewProgressTracker(80).View(); view != "" {
		t.Errorf("Expected empty view, got: %s", view)
	}
}

func TestViewWithProgress(t *testing.T) {
	tracker := NewProgressTracker(80)
	tracker.Update(services.PrefetchProgress{
		ChapterID:   "ch-1",
		Status:      services.StatusDownloading,
		CurrentPage: 10,
		TotalPages:  20,
	})
	tracker.Update(services.PrefetchProgress{
		ChapterID: "ch-2",
		Status:    services.StatusError,
		Error:     errors.New("bad status: 404 Not Found"),
	})

	view := tracker.View()
	if !strings.Contains(view, "10/20") {
		t.Error("Expected page progress in view")
	}
	if !strings.Contains(view, "404 Not Found") {
		t.Error("Expected error in view")
	}
}

func TestRenderProgressBar(t *testing.T) {
	bar := renderProgressBar(50, 100, 20)
	if strings.Count(bar, "█") != 10 || strings.Count(bar, "░") != 10 {
		t.Errorf("Expected half filled bar, got %q", bar)
	}
}

func TestRenderProgressBarZeroTotal(t *testing.T) {
	if bar := renderProgressBar(0, 0, 20); bar != "" {
		t.Errorf("Expected empty string for zero total, got: %s", bar)
	}
}

func TestRenderProgressBarClamps(t *testing.T) {
	bar := renderProgressBar(150, 100, 20)
	if strings.Count(bar, "█") != 20 {
		t.Errorf("Expected a full bar, got %q", bar)
	}
}

func TestReadingProgress(t *testing.T) {
	view := ReadingProgress(25, 46)
	if strings.Count(view, "█") != 10 {
		t.Errorf("Expected a quarter of 40 cells filled, got %q", view)
	}
	if !strings.HasSuffix(view, " 25%") {
		t.Errorf("Expected percentage suffix, got %q", view)
	}

	empty := ReadingProgress(0, 46)
	if strings.Count(empty, "░") != 40 {
		t.Errorf("Expected an empty bar, got %q", empty)
	}
}
