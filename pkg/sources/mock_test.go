package sources

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockFetchChapter(t *testing.T) {
	var src Source = NewMock(0)
	ch, err := src.FetchChapter(context.Background(), "https://example.com/chapter/1")
	require.NoError(t, err)

	assert.Equal(t, "chapter-1", ch.ID)
	assert.Equal(t, "Sample Manga Chapter", ch.Title)
	assert.Equal(t, "https://example.com/chapter/1", ch.URL)
	require.Len(t, ch.Pages, 20)
	for i, p := range ch.Pages {
		assert.Equal(t, i+1, p.Number)
		assert.False(t, p.IsTranslated)
	}
	assert.Equal(t, "page-20", ch.Pages[19].ID)
	assert.Equal(t, "/placeholder.svg?size=wide&text=Page+20", ch.Pages[19].ImageURL)
}

func TestMockFetchChapterHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMock(time.Hour).FetchChapter(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
