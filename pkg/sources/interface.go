package sources

import (
	"context"

	"github.com/kerbaras/yomu/pkg/data"
)

// Source resolves a chapter URL into a chapter with its ordered pages.
type Source interface {
	FetchChapter(ctx context.Context, url string) (*data.Chapter, error)
}
