package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kerbaras/yomu/pkg/data"
	"github.com/kerbaras/yomu/pkg/integrations"
	"github.com/kerbaras/yomu/pkg/sources"
	"github.com/kerbaras/yomu/pkg/store"
)

var ErrNoPage = errors.New("no page loaded")

// Reader connects the store with the chapter source, the transformer and
// the prefetcher. Every state change goes through a store action.
type Reader struct {
	store       *store.Store
	source      sources.Source
	transformer Transformer
	prefetcher  *Prefetcher
	copy        func(string) error
	logger      *log.Logger
}

type ReaderOption func(*Reader)

func WithPrefetcher(p *Prefetcher) ReaderOption {
	return func(r *Reader) { r.prefetcher = p }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) ReaderOption {
	return func(r *Reader) { r.copy = fn }
}

func WithReaderLogger(logger *log.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func NewReader(st *store.Store, source sources.Source, transformer Transformer, opts ...ReaderOption) *Reader {
	r := &Reader{
		store:       st,
		source:      source,
		transformer: transformer,
		copy:        CopyToClipboard,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Reader) Store() *store.Store { return r.store }

// LoadChapter fetches the chapter at url and makes it current.
func (r *Reader) LoadChapter(ctx context.Context, url string) (*data.Chapter, error) {
	chapter, err := r.source.FetchChapter(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to load chapter: %w", err)
	}
	r.store.SetChapter(*chapter)
	return chapter, nil
}

// ApplyOverlays translates and then colorizes the current page according to
// the enabled preferences and swaps the result into the chapter. The page is
// left untouched if any step fails.
func (r *Reader) ApplyOverlays(ctx context.Context) (data.Page, error) {
	st := r.store.State()
	page, ok := store.CurrentPageData(st)
	if !ok {
		return data.Page{}, ErrNoPage
	}
	prefs := st.Preferences
	if !prefs.TranslationEnabled && !prefs.ColorizationEnabled {
		return page, nil
	}

	if prefs.TranslationEnabled {
		url, err := r.transformer.TranslatePage(ctx, page.ID, prefs.SourceLanguage, prefs.TargetLanguage)
		if err != nil {
			return data.Page{}, fmt.Errorf("failed to translate page %d: %w", page.Number, err)
		}
		page.ImageURL = url
		page.IsTranslated = true
	}
	if prefs.ColorizationEnabled {
		url, err := r.transformer.ColorizePage(ctx, page.ID, prefs.ModelSettings.Quality)
		if err != nil {
			return data.Page{}, fmt.Errorf("failed to colorize page %d: %w", page.Number, err)
		}
		page.ImageURL = url
		page.IsColorized = true
	}

	r.store.ReplacePage(page)
	return page, nil
}

// ValidateAPIKey checks key with the transformer and stores it when valid.
func (r *Reader) ValidateAPIKey(ctx context.Context, key string) (bool, error) {
	ok, err := r.transformer.ValidateAPIKey(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to validate api key: %w", err)
	}
	if ok {
		r.store.UpdatePreferences(data.PreferencesPatch{APIKey: &key})
	}
	return ok, nil
}

// CopyPageURL records the current page URL in the preferences and copies it
// to the system clipboard. The preference is kept even when copying fails.
func (r *Reader) CopyPageURL() (string, error) {
	page, ok := store.CurrentPageData(r.store.State())
	if !ok {
		return "", ErrNoPage
	}
	r.store.SetClipboardURL(page.ImageURL)
	if err := r.copy(page.ImageURL); err != nil {
		r.logger.Printf("Clipboard not available: %v", err)
		return page.ImageURL, err
	}
	return page.ImageURL, nil
}

// Prefetch pulls every page of the current chapter through the prefetcher.
func (r *Reader) Prefetch(ctx context.Context) error {
	if r.prefetcher == nil {
		return fmt.Errorf("prefetch not configured")
	}
	chapter := store.CurrentChapter(r.store.State())
	if chapter == nil {
		return ErrNoPage
	}
	return r.prefetcher.Prefetch(ctx, chapter)
}

// Export writes the current chapter to an EPUB in outputDir, with pages
// rescaled for the configured quality.
func (r *Reader) Export(ctx context.Context, outputDir string) (string, error) {
	if r.prefetcher == nil {
		return "", fmt.Errorf("export needs a prefetcher")
	}
	st := r.store.State()
	chapter := store.CurrentChapter(st)
	if chapter == nil || len(chapter.Pages) == 0 {
		return "", ErrNoPage
	}

	builder := integrations.NewEPubBuilder(outputDir, st.Preferences.ModelSettings.Quality)
	if err := builder.Init(chapter); err != nil {
		return "", fmt.Errorf("failed to initialize EPUB builder: %w", err)
	}
	for _, page := range chapter.Pages {
		img, err := r.prefetcher.FetchPage(ctx, page)
		if err != nil {
			builder.Abort()
			return "", fmt.Errorf("failed to download page %d: %w", page.Number, err)
		}
		if err := builder.Next(img); err != nil {
			builder.Abort()
			return "", fmt.Errorf("failed to add page %d to EPUB: %w", page.Number, err)
		}
	}

	path, err := builder.Done()
	if err != nil {
		return "", fmt.Errorf("failed to finalize EPUB: %w", err)
	}
	return path, nil
}
