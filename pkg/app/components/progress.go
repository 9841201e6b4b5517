package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kerbaras/yomu/pkg/app/styles"
	"github.com/kerbaras/yomu/pkg/services"
)

// ProgressTracker keeps the latest prefetch update per chapter.
type ProgressTracker struct {
	prefetches map[string]services.PrefetchProgress
	width      int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		prefetches: make(map[string]services.PrefetchProgress),
		width:      width,
	}
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
}

// Update records progress. Completed chapters are dropped.
func (p *ProgressTracker) Update(progress services.PrefetchProgress) {
	if progress.Status == services.StatusComplete {
		delete(p.prefetches, progress.ChapterID)
		return
	}
	current, ok := p.prefetches[progress.ChapterID]
	if ok && current.Status == services.StatusError && progress.Status != services.StatusError {
		progress.Error = current.Error
		progress.Status = services.StatusError
	}
	p.prefetches[progress.ChapterID] = progress
}

func (p *ProgressTracker) Clear() {
	p.prefetches = make(map[string]services.PrefetchProgress)
}

func (p *ProgressTracker) HasActive() bool {
	return len(p.prefetches) > 0
}

func (p *ProgressTracker) View() string {
	if len(p.prefetches) == 0 {
		return ""
	}

	ids := make([]string, 0, len(p.prefetches))
	for id := range p.prefetches {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		progress := p.prefetches[id]
		statusText := progress.Status
		if progress.TotalPages > 0 {
			statusText = fmt.Sprintf("Prefetching %d/%d pages", progress.CurrentPage, progress.TotalPages)
			b.WriteString(renderProgressBar(progress.CurrentPage, progress.TotalPages, p.width-4))
			b.WriteString("\n")
		}
		b.WriteString(styles.StatusStyle(progress.Status).Render(statusText))
		b.WriteString("\n")
		if progress.Error != nil {
			b.WriteString(styles.StatusError.Render(fmt.Sprintf("Error: %s", progress.Error)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	return styles.ProgressBarStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// ReadingProgress renders the chapter progress bar followed by the
// percentage read.
func ReadingProgress(percent float64, width int) string {
	barWidth := width - 6
	if barWidth < 10 {
		barWidth = 10
	}
	bar := renderProgressBar(int(percent*10), 1000, barWidth)
	if bar == "" {
		bar = styles.ProgressEmptyStyle.Render(strings.Repeat("░", barWidth))
	}
	return fmt.Sprintf("%s %3.0f%%", bar, percent)
}
