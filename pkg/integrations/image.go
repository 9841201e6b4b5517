package integrations

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/kerbaras/yomu/pkg/data"
)

// ImageData is one fetched page image.
type ImageData struct {
	Content     []byte
	ContentType string
	Index       int
}

// ImageSettings controls how page images are rescaled for export.
type ImageSettings struct {
	MaxWidth    int // 0 keeps the original width
	JPEGQuality int
}

// SettingsFor maps a reader quality level to export settings.
func SettingsFor(q data.Quality) ImageSettings {
	switch q {
	case data.QualityLow:
		return ImageSettings{MaxWidth: 800, JPEGQuality: 70}
	case data.QualityHigh:
		return ImageSettings{MaxWidth: 0, JPEGQuality: 95}
	default:
		return ImageSettings{MaxWidth: 1200, JPEGQuality: 85}
	}
}

type ImageProcessor struct {
	settings ImageSettings
}

func NewImageProcessor(settings ImageSettings) *ImageProcessor {
	return &ImageProcessor{settings: settings}
}

// Process decodes img, narrows it to MaxWidth keeping the aspect ratio and
// re-encodes it. PNG input stays PNG, everything else becomes JPEG.
// Formats that cannot be decoded return image.ErrFormat.
func (p *ImageProcessor) Process(img ImageData) (ImageData, error) {
	src, format, err := image.Decode(bytes.NewReader(img.Content))
	if err != nil {
		return ImageData{}, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := p.calculateDimensions(bounds.Dx(), bounds.Dy())

	var processed image.Image = src
	if width != bounds.Dx() || height != bounds.Dy() {
		processed = p.resize(src, width, height)
	}

	var buf bytes.Buffer
	out := ImageData{Index: img.Index}
	if format == "png" {
		if err := png.Encode(&buf, processed); err != nil {
			return ImageData{}, fmt.Errorf("failed to encode PNG: %w", err)
		}
		out.ContentType = "image/png"
	} else {
		if err := jpeg.Encode(&buf, processed, &jpeg.Options{Quality: p.settings.JPEGQuality}); err != nil {
			return ImageData{}, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		out.ContentType = "image/jpeg"
	}
	out.Content = buf.Bytes()
	return out, nil
}

func (p *ImageProcessor) calculateDimensions(width, height int) (int, int) {
	if p.settings.MaxWidth <= 0 || width <= p.settings.MaxWidth {
		return width, height
	}
	scale := float64(p.settings.MaxWidth) / float64(width)
	newHeight := int(float64(height) * scale)
	if newHeight < 1 {
		newHeight = 1
	}
	return p.settings.MaxWidth, newHeight
}

func (p *ImageProcessor) resize(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
