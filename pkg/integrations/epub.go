package integrations

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-shiori/go-epub"

	"github.com/kerbaras/yomu/pkg/data"
)

// EPubBuilder streams the pages of one chapter into an EPUB file.
// Call Init, then Next once per page in reading order, then Done.
type EPubBuilder struct {
	outputDir string
	processor *ImageProcessor

	workDir string
	book    *epub.Epub
	chapter *data.Chapter
	pages   int
	html    strings.Builder
}

func NewEPubBuilder(outputDir string, quality data.Quality) *EPubBuilder {
	return &EPubBuilder{
		outputDir: outputDir,
		processor: NewImageProcessor(SettingsFor(quality)),
	}
}

func (b *EPubBuilder) Init(chapter *data.Chapter) error {
	if chapter == nil {
		return fmt.Errorf("chapter cannot be nil")
	}
	workDir, err := os.MkdirTemp("", "yomu-epub-*")
	if err != nil {
		return fmt.Errorf("failed to create work directory: %w", err)
	}

	book, err := epub.NewEpub(chapterTitle(chapter))
	if err != nil {
		os.RemoveAll(workDir)
		return fmt.Errorf("failed to create EPub: %w", err)
	}
	book.SetAuthor("Yomu")
	book.SetLang("en")
	if chapter.URL != "" {
		book.SetDescription(chapter.URL)
	}

	b.workDir = workDir
	b.book = book
	b.chapter = chapter
	b.pages = 0
	b.html.Reset()
	b.html.WriteString(fmt.Sprintf("<h1>%s</h1>\n", chapterTitle(chapter)))
	return nil
}

// Next rescales img for the configured quality and appends it as the next
// page. Images the processor cannot decode are embedded unchanged.
func (b *EPubBuilder) Next(img ImageData) error {
	if b.book == nil {
		return fmt.Errorf("builder not initialized")
	}
	if len(img.Content) == 0 {
		return fmt.Errorf("page %d is empty", img.Index+1)
	}

	processed, err := b.processor.Process(img)
	if errors.Is(err, image.ErrFormat) {
		processed = img
	} else if err != nil {
		return err
	}

	name := fmt.Sprintf("%04d%s", b.pages+1, extensionFor(processed.ContentType))
	path := filepath.Join(b.workDir, name)
	if err := os.WriteFile(path, processed.Content, 0644); err != nil {
		return fmt.Errorf("failed to write page: %w", err)
	}

	internalPath, err := b.book.AddImage(path, name)
	if err != nil {
		return fmt.Errorf("failed to add image %s: %w", name, err)
	}
	b.pages++
	b.html.WriteString(fmt.Sprintf(
		`<div class="page"><img src="%s" alt="Page %d" style="width:100%%;height:auto;"/></div>%s`,
		internalPath, b.pages, "\n",
	))
	return nil
}

// Done writes the EPUB and returns its path. The builder must be
// initialized again before reuse.
func (b *EPubBuilder) Done() (string, error) {
	if b.book == nil {
		return "", fmt.Errorf("builder not initialized")
	}
	defer b.cleanup()

	if b.pages == 0 {
		return "", fmt.Errorf("no pages to export")
	}
	if _, err := b.book.AddSection(b.html.String(), chapterTitle(b.chapter), "", ""); err != nil {
		return "", fmt.Errorf("failed to add section: %w", err)
	}
	if err := os.MkdirAll(b.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(b.outputDir, sanitizeFilename(chapterTitle(b.chapter))+".epub")
	if err := b.book.Write(outputPath); err != nil {
		return "", fmt.Errorf("failed to write EPub: %w", err)
	}
	return outputPath, nil
}

// Abort discards the pages added since Init without writing anything.
func (b *EPubBuilder) Abort() {
	if b.book != nil {
		b.cleanup()
	}
}

func (b *EPubBuilder) cleanup() {
	os.RemoveAll(b.workDir)
	b.book = nil
	b.chapter = nil
	b.workDir = ""
}

func chapterTitle(ch *data.Chapter) string {
	title := fmt.Sprintf("Chapter %d", ch.Number)
	if ch.Title != "" {
		title = fmt.Sprintf("%s: %s", title, ch.Title)
	}
	return title
}

func extensionFor(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	case strings.Contains(contentType, "svg"):
		return ".svg"
	default:
		return ".jpg"
	}
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
