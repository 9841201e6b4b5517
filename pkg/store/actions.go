package store

import "github.com/kerbaras/yomu/pkg/data"

// SetCurrentPage jumps to page n, clamped into [1, max(TotalPages, 1)] like
// NextPage and PreviousPage.
func (s *Store) SetCurrentPage(n int) {
	s.update(func(st AppState) AppState {
		st.CurrentPage = clampPage(n, st.TotalPages)
		return st
	})
}

// SetChapter replaces the current chapter and restarts reading at page 1.
func (s *Store) SetChapter(chapter data.Chapter) {
	ch := chapter.Clone()
	s.update(func(st AppState) AppState {
		st.CurrentChapter = ch
		st.TotalPages = len(ch.Pages)
		st.CurrentPage = 1
		return st
	})
}

// ToggleFullscreen flips the flag and asks the host to follow. Host failures
// are logged and never revert the flag.
func (s *Store) ToggleFullscreen() {
	s.update(func(st AppState) AppState {
		st.IsFullscreen = !st.IsFullscreen
		return st
	})
	s.syncHost()
}

func (s *Store) ToggleSettings() {
	s.update(func(st AppState) AppState {
		st.IsSettingsOpen = !st.IsSettingsOpen
		return st
	})
}

// UpdatePreferences merges the set fields of patch into the preferences.
func (s *Store) UpdatePreferences(patch data.PreferencesPatch) {
	s.update(func(st AppState) AppState {
		st.Preferences = st.Preferences.Merge(patch)
		return st
	})
}

// NextPage advances one page, stopping at the last one. Without pages the
// reader stays on page 1.
func (s *Store) NextPage() {
	s.update(func(st AppState) AppState {
		st.CurrentPage = clampPage(st.CurrentPage+1, st.TotalPages)
		return st
	})
}

func (s *Store) PreviousPage() {
	s.update(func(st AppState) AppState {
		st.CurrentPage = clampPage(st.CurrentPage-1, st.TotalPages)
		return st
	})
}

func (s *Store) SetClipboardURL(url string) {
	s.UpdatePreferences(data.PreferencesPatch{ClipboardURL: &url})
}

// ReplacePage swaps the page with the same ID in the current chapter for
// page, keeping the reading position. Unknown pages are ignored.
func (s *Store) ReplacePage(page data.Page) {
	s.update(func(st AppState) AppState {
		if st.CurrentChapter == nil {
			return st
		}
		for i, p := range st.CurrentChapter.Pages {
			if p.ID != page.ID {
				continue
			}
			ch := st.CurrentChapter.Clone()
			ch.Pages[i] = page
			st.CurrentChapter = ch
			break
		}
		return st
	})
}

// Reset restores the default snapshot, keeping nothing.
func (s *Store) Reset() {
	s.update(func(AppState) AppState {
		return DefaultState()
	})
	s.syncHost()
}
