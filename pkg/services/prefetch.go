package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kerbaras/yomu/pkg/data"
	"github.com/kerbaras/yomu/pkg/integrations"
)

const (
	StatusDownloading = "downloading"
	StatusComplete    = "complete"
	StatusError       = "error"
)

// PrefetchProgress reports the state of a chapter prefetch.
type PrefetchProgress struct {
	ChapterID   string
	PageID      string
	CurrentPage int
	TotalPages  int
	Status      string
	Error       error
}

// ErrPrefetcherClosed is returned by calls made after Close.
var ErrPrefetcherClosed = errors.New("prefetcher closed")

// Prefetcher pulls page images ahead of reading. Requests go through client,
// normally the cache worker's, so fetched pages are stored for offline use.
type Prefetcher struct {
	client       *http.Client
	base         *url.URL
	concurrency  int
	rateLimiter  *time.Ticker
	progressChan chan PrefetchProgress

	// done is cancelled by Close; running calls are tracked in running.
	done    context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	closed  bool
	running sync.WaitGroup
}

// NewPrefetcher creates a prefetcher that resolves relative page URLs
// against origin and starts at most one request per interval.
func NewPrefetcher(client *http.Client, origin string, interval time.Duration) (*Prefetcher, error) {
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	done, cancel := context.WithCancel(context.Background())
	return &Prefetcher{
		client:       client,
		base:         base,
		concurrency:  3,
		rateLimiter:  time.NewTicker(interval),
		progressChan: make(chan PrefetchProgress, 100),
		done:         done,
		cancel:       cancel,
	}, nil
}

// Progress returns the channel for receiving prefetch updates. Updates are
// dropped when nobody reads them.
func (p *Prefetcher) Progress() <-chan PrefetchProgress {
	return p.progressChan
}

// Prefetch fetches every page of chapter, at most three at a time. It
// returns the first failure after all started fetches finish.
func (p *Prefetcher) Prefetch(ctx context.Context, chapter *data.Chapter) error {
	if chapter == nil {
		return fmt.Errorf("chapter cannot be nil")
	}
	ctx, release, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	total := len(chapter.Pages)

	var (
		mu   sync.Mutex
		done int
	)
	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)
	for _, page := range chapter.Pages {
		g.Go(func() error {
			_, err := p.fetch(ctx, page)
			mu.Lock()
			done++
			progress := PrefetchProgress{
				ChapterID:   chapter.ID,
				PageID:      page.ID,
				CurrentPage: done,
				TotalPages:  total,
				Status:      StatusDownloading,
			}
			mu.Unlock()
			if err != nil {
				progress.Status = StatusError
				progress.Error = err
				p.sendProgress(progress)
				return fmt.Errorf("page %d: %w", page.Number, err)
			}
			p.sendProgress(progress)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	p.sendProgress(PrefetchProgress{
		ChapterID:   chapter.ID,
		CurrentPage: total,
		TotalPages:  total,
		Status:      StatusComplete,
	})
	return nil
}

// FetchPage downloads a single page image.
func (p *Prefetcher) FetchPage(ctx context.Context, page data.Page) (integrations.ImageData, error) {
	ctx, release, err := p.acquire(ctx)
	if err != nil {
		return integrations.ImageData{}, err
	}
	defer release()
	return p.fetch(ctx, page)
}

// acquire registers a running call. The returned context is also cancelled
// by Close, and release must be called when the call returns.
func (p *Prefetcher) acquire(ctx context.Context) (context.Context, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, nil, ErrPrefetcherClosed
	}
	p.running.Add(1)

	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(p.done, cancel)
	return ctx, func() {
		stop()
		cancel()
		p.running.Done()
	}, nil
}

func (p *Prefetcher) fetch(ctx context.Context, page data.Page) (integrations.ImageData, error) {
	select {
	case <-ctx.Done():
		return integrations.ImageData{}, ctx.Err()
	case <-p.rateLimiter.C:
	}

	ref, err := url.Parse(page.ImageURL)
	if err != nil {
		return integrations.ImageData{}, fmt.Errorf("invalid image url %q: %w", page.ImageURL, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base.ResolveReference(ref).String(), nil)
	if err != nil {
		return integrations.ImageData{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := p.client.Do(req)
	if err != nil {
		return integrations.ImageData{}, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return integrations.ImageData{}, fmt.Errorf("bad status: %s", resp.Status)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return integrations.ImageData{}, fmt.Errorf("failed to read image content: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return integrations.ImageData{
		Content:     content,
		ContentType: contentType,
		Index:       page.Number - 1,
	}, nil
}

// sendProgress sends a progress update (non-blocking)
func (p *Prefetcher) sendProgress(progress PrefetchProgress) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.progressChan <- progress:
	default:
	}
}

// Close cancels running prefetches, waits for them to return and then
// closes the progress channel. Later calls fail with ErrPrefetcherClosed.
func (p *Prefetcher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	p.running.Wait()
	p.rateLimiter.Stop()
	close(p.progressChan)
}
