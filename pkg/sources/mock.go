package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/kerbaras/yomu/pkg/data"
)

const mockPageCount = 20

// Mock serves a fixed sample chapter for any URL after a simulated delay.
type Mock struct {
	Delay time.Duration
}

func NewMock(delay time.Duration) *Mock {
	return &Mock{Delay: delay}
}

func (m *Mock) FetchChapter(ctx context.Context, url string) (*data.Chapter, error) {
	if err := sleep(ctx, m.Delay); err != nil {
		return nil, err
	}

	pages := make([]data.Page, mockPageCount)
	for i := range pages {
		pages[i] = data.Page{
			ID:       fmt.Sprintf("page-%d", i+1),
			ImageURL: fmt.Sprintf("/placeholder.svg?size=wide&text=Page+%d", i+1),
			Number:   i + 1,
		}
	}
	return &data.Chapter{
		ID:     "chapter-1",
		Title:  "Sample Manga Chapter",
		Number: 1,
		Pages:  pages,
		URL:    url,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
