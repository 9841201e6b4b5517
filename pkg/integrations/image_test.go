package integrations

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerbaras/yomu/pkg/data"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func decodedSize(t *testing.T, content []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(content))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestSettingsFor(t *testing.T) {
	assert.Equal(t, 800, SettingsFor(data.QualityLow).MaxWidth)
	assert.Equal(t, 1200, SettingsFor(data.QualityMedium).MaxWidth)
	assert.Equal(t, 0, SettingsFor(data.QualityHigh).MaxWidth)
	assert.Equal(t, 1200, SettingsFor("unknown").MaxWidth)
}

func TestProcessDownscalesWidePages(t *testing.T) {
	p := NewImageProcessor(ImageSettings{MaxWidth: 100, JPEGQuality: 80})
	out, err := p.Process(ImageData{Content: encodePNG(t, 400, 600), ContentType: "image/png", Index: 3})
	require.NoError(t, err)

	w, h := decodedSize(t, out.Content)
	assert.Equal(t, 100, w)
	assert.Equal(t, 150, h)
	assert.Equal(t, "image/png", out.ContentType)
	assert.Equal(t, 3, out.Index)
}

func TestProcessKeepsNarrowPages(t *testing.T) {
	p := NewImageProcessor(SettingsFor(data.QualityLow))
	out, err := p.Process(ImageData{Content: encodeJPEG(t, 300, 400), ContentType: "image/jpeg"})
	require.NoError(t, err)

	w, h := decodedSize(t, out.Content)
	assert.Equal(t, 300, w)
	assert.Equal(t, 400, h)
	assert.Equal(t, "image/jpeg", out.ContentType)
}

func TestProcessHighQualityKeepsOriginalWidth(t *testing.T) {
	p := NewImageProcessor(SettingsFor(data.QualityHigh))
	out, err := p.Process(ImageData{Content: encodePNG(t, 1600, 10)})
	require.NoError(t, err)

	w, _ := decodedSize(t, out.Content)
	assert.Equal(t, 1600, w)
}

func TestProcessUnknownFormat(t *testing.T) {
	p := NewImageProcessor(SettingsFor(data.QualityMedium))
	_, err := p.Process(ImageData{Content: []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, image.ErrFormat))
}
