package store

import (
	"sync"

	"github.com/kerbaras/yomu/pkg/data"
)

// Derived views. Each one is a pure function of a snapshot.

func CurrentPage(st AppState) int { return st.CurrentPage }

func TotalPages(st AppState) int { return st.TotalPages }

func IsFullscreen(st AppState) bool { return st.IsFullscreen }

func IsSettingsOpen(st AppState) bool { return st.IsSettingsOpen }

func CurrentChapter(st AppState) *data.Chapter { return st.CurrentChapter }

func Preferences(st AppState) data.Preferences { return st.Preferences }

// Progress is the percentage of the chapter read, 0 without pages.
func Progress(st AppState) float64 {
	if st.TotalPages <= 0 {
		return 0
	}
	return float64(st.CurrentPage) / float64(st.TotalPages) * 100
}

// CurrentPageData returns the page being displayed, if any.
func CurrentPageData(st AppState) (data.Page, bool) {
	if st.CurrentChapter == nil {
		return data.Page{}, false
	}
	i := st.CurrentPage - 1
	if i < 0 || i >= len(st.CurrentChapter.Pages) {
		return data.Page{}, false
	}
	return st.CurrentChapter.Pages[i], true
}

// Watch subscribes fn to the value selected from each snapshot. fn runs once
// with the current value and then only when the value changes.
func Watch[T comparable](s *Store, selector func(AppState) T, fn func(T)) (unsubscribe func()) {
	var (
		mu      sync.Mutex
		last    T
		started bool
	)
	return s.Subscribe(func(st AppState) {
		v := selector(st)
		mu.Lock()
		if started && v == last {
			mu.Unlock()
			return
		}
		started = true
		last = v
		mu.Unlock()
		fn(v)
	})
}
