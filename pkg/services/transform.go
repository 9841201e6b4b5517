package services

import (
	"context"
	"time"

	"github.com/kerbaras/yomu/pkg/data"
)

// Transformer produces translated or colorized versions of a page and checks
// API keys for the inference backend.
type Transformer interface {
	TranslatePage(ctx context.Context, pageID, sourceLanguage, targetLanguage string) (string, error)
	ColorizePage(ctx context.Context, pageID string, quality data.Quality) (string, error)
	ValidateAPIKey(ctx context.Context, apiKey string) (bool, error)
}

const (
	translateDelay = 2 * time.Second
	colorizeDelay  = 3 * time.Second
	validateDelay  = 500 * time.Millisecond
)

// MockTransformer simulates the inference backend with fixed delays and
// placeholder results. Scale multiplies every delay; 0 answers immediately.
type MockTransformer struct {
	Scale float64
}

func NewMockTransformer(scale float64) *MockTransformer {
	return &MockTransformer{Scale: scale}
}

func (m *MockTransformer) TranslatePage(ctx context.Context, pageID, sourceLanguage, targetLanguage string) (string, error) {
	if err := m.wait(ctx, translateDelay); err != nil {
		return "", err
	}
	return "/placeholder.svg?size=wide&text=Translated+Page", nil
}

func (m *MockTransformer) ColorizePage(ctx context.Context, pageID string, quality data.Quality) (string, error) {
	if err := m.wait(ctx, colorizeDelay); err != nil {
		return "", err
	}
	return "/placeholder.svg?size=wide&text=Colorized+Page", nil
}

// ValidateAPIKey accepts any key longer than 10 characters.
func (m *MockTransformer) ValidateAPIKey(ctx context.Context, apiKey string) (bool, error) {
	if err := m.wait(ctx, validateDelay); err != nil {
		return false, err
	}
	return len(apiKey) > 10, nil
}

func (m *MockTransformer) wait(ctx context.Context, d time.Duration) error {
	d = time.Duration(float64(d) * m.Scale)
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
