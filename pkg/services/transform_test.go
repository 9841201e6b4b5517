package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerbaras/yomu/pkg/data"
)

func TestMockTransformerResults(t *testing.T) {
	var tr Transformer = NewMockTransformer(0)
	ctx := context.Background()

	url, err := tr.TranslatePage(ctx, "page-1", "ja", "en")
	require.NoError(t, err)
	assert.Equal(t, "/placeholder.svg?size=wide&text=Translated+Page", url)

	url, err = tr.ColorizePage(ctx, "page-1", data.QualityHigh)
	require.NoError(t, err)
	assert.Equal(t, "/placeholder.svg?size=wide&text=Colorized+Page", url)
}

func TestMockTransformerValidateAPIKey(t *testing.T) {
	tr := NewMockTransformer(0)
	tests := []struct {
		key  string
		want bool
	}{
		{"", false},
		{"0123456789", false},
		{"0123456789a", true},
	}
	for _, tt := range tests {
		ok, err := tr.ValidateAPIKey(context.Background(), tt.key)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "key %q", tt.key)
	}
}

func TestMockTransformerHonorsContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewMockTransformer(1).ColorizePage(ctx, "page-1", data.QualityLow)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSelectClipboardCommand(t *testing.T) {
	lookup := func(bin string) (string, error) {
		if bin == "xclip" || bin == "wl-copy" {
			return "/usr/bin/" + bin, nil
		}
		return "", assert.AnError
	}
	got, err := selectClipboardCommand(lookup)
	require.NoError(t, err)
	assert.Equal(t, []string{"xclip", "-selection", "clipboard"}, got)

	_, err = selectClipboardCommand(func(string) (string, error) { return "", assert.AnError })
	assert.ErrorContains(t, err, "no clipboard command")
}
