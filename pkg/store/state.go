package store

import "github.com/kerbaras/yomu/pkg/data"

// AppState is one immutable snapshot of the reader.
type AppState struct {
	CurrentPage    int
	TotalPages     int
	IsFullscreen   bool
	IsSettingsOpen bool
	CurrentChapter *data.Chapter // nil until a chapter is loaded
	Preferences    data.Preferences
}

func DefaultState() AppState {
	return AppState{
		CurrentPage: 1,
		Preferences: data.DefaultPreferences(),
	}
}

// clone detaches the chapter so callers cannot reach the canonical snapshot.
func (s AppState) clone() AppState {
	s.CurrentChapter = s.CurrentChapter.Clone()
	return s
}

// clampPage keeps page inside [1, max(total, 1)].
func clampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page > total {
		return total
	}
	if page < 1 {
		return 1
	}
	return page
}
