package screens

import "github.com/kerbaras/yomu/pkg/data"

type chapterLoadedMsg struct {
	chapter *data.Chapter
	err     error
}

type overlayAppliedMsg struct {
	page data.Page
	err  error
}

type apiKeyCheckedMsg struct {
	valid bool
	err   error
}

type urlCopiedMsg struct {
	url string
	err error
}

type exportedMsg struct {
	path string
	err  error
}

type prefetchDoneMsg struct {
	err error
}
