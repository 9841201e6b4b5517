package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/kerbaras/yomu/pkg/app"
	"github.com/kerbaras/yomu/pkg/cache"
	"github.com/kerbaras/yomu/pkg/config"
	"github.com/kerbaras/yomu/pkg/data"
	"github.com/kerbaras/yomu/pkg/services"
	"github.com/kerbaras/yomu/pkg/sources"
	"github.com/kerbaras/yomu/pkg/store"
)

const mockChapterDelay = time.Second

// session holds everything one command run needs, built from cfg.
type session struct {
	repo       *data.CacheRepository
	worker     *cache.Worker
	host       *app.AltScreen
	prefetcher *services.Prefetcher
	reader     *services.Reader
}

// openSession opens the cache database and starts the cache worker. When
// the origin is unreachable the worker resumes the cache from an earlier
// run; without one it stays unclaimed and requests go straight to the
// network.
func openSession(ctx context.Context, cfg config.Config, opts ...cache.Option) (*session, error) {
	repo, err := data.NewCacheRepository(cfg.CacheDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	worker, err := cache.NewWorker(repo, http.DefaultTransport, cfg.CacheVersion, cfg.Origin, opts...)
	if err != nil {
		repo.Close()
		return nil, err
	}
	if err := worker.Start(ctx); err != nil {
		log.Printf("Offline cache unavailable, continuing online: %v", err)
	}

	prefetcher, err := services.NewPrefetcher(worker.Client(), cfg.Origin, cfg.PrefetchInterval)
	if err != nil {
		repo.Close()
		return nil, err
	}

	host := app.NewAltScreen()
	st := store.New(store.WithFullscreen(host), store.WithPreferences(cfg.Preferences()))
	reader := services.NewReader(st, newSource(cfg, worker.Client()),
		services.NewMockTransformer(cfg.TransformDelayScale),
		services.WithPrefetcher(prefetcher))

	return &session{
		repo:       repo,
		worker:     worker,
		host:       host,
		prefetcher: prefetcher,
		reader:     reader,
	}, nil
}

func newSource(cfg config.Config, client *http.Client) sources.Source {
	if cfg.Source == config.SourceMangaDex {
		return sources.NewMangaDex(cfg.MangaDexURL, client)
	}
	return sources.NewMock(cfg.Scale(mockChapterDelay))
}

// Close cancels running prefetches before the database goes away.
func (s *session) Close() {
	s.prefetcher.Close()
	s.reader.Store().Wait()
	if err := s.repo.Close(); err != nil {
		log.Printf("Failed to close cache: %v", err)
	}
}
