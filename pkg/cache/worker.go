package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// NamePrefix is prepended to the version to build the cache name.
const NamePrefix = "yomu-reader-"

// DefaultAssets is the application shell cached on install.
var DefaultAssets = []string{
	"/",
	"/manifest.json",
	"https://fonts.googleapis.com/css2?family=Manrope:wght@200..800&display=swap",
}

var (
	ErrInstallFailed = errors.New("cache install failed")
	ErrOffline       = errors.New("network unavailable and no cached document")
	ErrNotInstalled  = errors.New("cache not installed")
)

// Phase is the lifecycle position of a Worker.
type Phase int

const (
	PhaseParsed Phase = iota
	PhaseInstalling
	PhaseInstalled
	PhaseActivating
	PhaseActivated
	PhaseRedundant
)

func (p Phase) String() string {
	switch p {
	case PhaseParsed:
		return "parsed"
	case PhaseInstalling:
		return "installing"
	case PhaseInstalled:
		return "installed"
	case PhaseActivating:
		return "activating"
	case PhaseActivated:
		return "activated"
	case PhaseRedundant:
		return "redundant"
	}
	return "unknown"
}

// CacheName returns the cache name used for version.
func CacheName(version string) string {
	return NamePrefix + version
}

// Worker owns one versioned cache and intercepts outbound requests once
// activated. It implements http.RoundTripper.
type Worker struct {
	storage Storage
	network http.RoundTripper
	origin  *url.URL
	name    string
	assets  []string
	logger  *log.Logger

	mu      sync.RWMutex
	phase   Phase
	claimed bool
}

type Option func(*Worker)

// WithAssets overrides the shell asset list.
func WithAssets(assets []string) Option {
	return func(w *Worker) {
		w.assets = append([]string(nil), assets...)
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorker creates a worker for the cache of version. Relative shell assets
// are resolved against origin. A nil network uses http.DefaultTransport.
func NewWorker(storage Storage, network http.RoundTripper, version, origin string, opts ...Option) (*Worker, error) {
	if storage == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}
	if version == "" {
		return nil, fmt.Errorf("cache version cannot be empty")
	}
	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("origin must be http or https: %q", origin)
	}
	if network == nil {
		network = http.DefaultTransport
	}

	w := &Worker{
		storage: storage,
		network: network,
		origin:  base,
		name:    CacheName(version),
		assets:  append([]string(nil), DefaultAssets...),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Worker) Name() string { return w.name }

func (w *Worker) Phase() Phase {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.phase
}

// Claimed reports whether the worker has taken control of outbound requests.
func (w *Worker) Claimed() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.claimed
}

// Client returns an http.Client whose requests go through the worker.
func (w *Worker) Client() *http.Client {
	return &http.Client{Transport: w}
}

// Resolve turns a shell asset reference into an absolute URL.
func (w *Worker) Resolve(ref string) (*url.URL, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("invalid asset %q: %w", ref, err)
	}
	return w.origin.ResolveReference(u), nil
}

func (w *Worker) setPhase(p Phase) {
	w.mu.Lock()
	w.phase = p
	w.mu.Unlock()
}

// Start installs and immediately activates the worker, without waiting for
// a previous version to release its clients. When install fails but an
// earlier run already populated this version's cache, the worker resumes
// with that cache instead, so the shell keeps working offline.
func (w *Worker) Start(ctx context.Context) error {
	err := w.Install(ctx)
	if err == nil {
		return w.Activate(ctx)
	}
	if rerr := w.Resume(ctx); rerr != nil {
		return errors.Join(err, rerr)
	}
	w.logger.Printf("Install failed, resuming %s: %v", w.name, err)
	return nil
}

// Resume claims outbound requests with an existing cache for this version.
// Every shell asset must already be stored; otherwise ErrNotInstalled is
// returned and the worker is left as it was.
func (w *Worker) Resume(ctx context.Context) error {
	names, err := w.storage.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list caches: %w", err)
	}
	if !slices.Contains(names, w.name) {
		return fmt.Errorf("%w: %s", ErrNotInstalled, w.name)
	}

	c, err := w.storage.Open(ctx, w.name)
	if err != nil {
		return fmt.Errorf("open cache %s: %w", w.name, err)
	}
	keys, err := c.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list entries of %s: %w", w.name, err)
	}
	for _, asset := range w.assets {
		u, err := w.Resolve(asset)
		if err != nil {
			return err
		}
		if !slices.Contains(keys, Key(u)) {
			return fmt.Errorf("%w: %s is missing %s", ErrNotInstalled, w.name, Key(u))
		}
	}

	w.mu.Lock()
	w.phase = PhaseActivated
	w.claimed = true
	w.mu.Unlock()
	w.logger.Printf("Service worker resumed from %s", w.name)
	return nil
}

// Install opens the cache and stores every shell asset. Assets are fetched
// concurrently and stored only when all of them answered 200.
func (w *Worker) Install(ctx context.Context) error {
	w.setPhase(PhaseInstalling)

	c, err := w.storage.Open(ctx, w.name)
	if err != nil {
		w.setPhase(PhaseRedundant)
		return fmt.Errorf("%w: open cache %s: %w", ErrInstallFailed, w.name, err)
	}

	w.logger.Printf("Caching static assets")
	keys := make([]string, len(w.assets))
	responses := make([]*Response, len(w.assets))
	g, gctx := errgroup.WithContext(ctx)
	for i, asset := range w.assets {
		g.Go(func() error {
			u, err := w.Resolve(asset)
			if err != nil {
				return err
			}
			resp, err := w.fetchAsset(gctx, u)
			if err != nil {
				return err
			}
			keys[i] = Key(u)
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.setPhase(PhaseRedundant)
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	for i, resp := range responses {
		if err := c.Put(ctx, keys[i], resp); err != nil {
			w.setPhase(PhaseRedundant)
			return fmt.Errorf("%w: store %s: %w", ErrInstallFailed, keys[i], err)
		}
	}

	w.setPhase(PhaseInstalled)
	w.logger.Printf("Service worker installed")
	return nil
}

func (w *Worker) fetchAsset(ctx context.Context, u *url.URL) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", u, err)
	}
	resp, err := w.network.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: bad status: %s", u, resp.Status)
	}
	return NewResponse(resp)
}

// Activate deletes every cache that does not belong to this version and
// then claims outbound requests.
func (w *Worker) Activate(ctx context.Context) error {
	if p := w.Phase(); p != PhaseInstalled {
		return fmt.Errorf("cannot activate worker in phase %s", p)
	}
	w.setPhase(PhaseActivating)

	names, err := w.storage.Keys(ctx)
	if err != nil {
		w.setPhase(PhaseInstalled)
		return fmt.Errorf("list caches: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		if name == w.name {
			continue
		}
		g.Go(func() error {
			w.logger.Printf("Deleting old cache: %s", name)
			if _, err := w.storage.Delete(gctx, name); err != nil {
				return fmt.Errorf("delete cache %s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		w.setPhase(PhaseInstalled)
		return err
	}

	w.mu.Lock()
	w.phase = PhaseActivated
	w.claimed = true
	w.mu.Unlock()
	w.logger.Printf("Service worker activated")
	return nil
}

// RoundTrip serves GET requests cache first. Misses go to the network and
// 200 responses are stored before being returned. When the network fails,
// document requests fall back to the cached root document.
func (w *Worker) RoundTrip(req *http.Request) (*http.Response, error) {
	if !w.intercepts(req) {
		return w.network.RoundTrip(req)
	}
	ctx := req.Context()

	cached, ok, err := w.storage.Match(ctx, RequestKey(req))
	if err != nil {
		return w.fallback(req, fmt.Errorf("cache match: %w", err))
	}
	if ok {
		return cached.HTTP(req), nil
	}

	resp, err := w.network.RoundTrip(req)
	if err != nil {
		return w.fallback(req, err)
	}
	if resp.StatusCode == http.StatusOK {
		if err := w.store(ctx, req, resp); err != nil {
			return w.fallback(req, err)
		}
	}
	return resp, nil
}

func (w *Worker) intercepts(req *http.Request) bool {
	if req.Method != http.MethodGet && req.Method != "" {
		return false
	}
	if req.URL == nil || (req.URL.Scheme != "http" && req.URL.Scheme != "https") {
		return false
	}
	return w.Claimed()
}

// store buffers resp and writes a copy under the request key. Only a body
// read failure is returned; cache write failures are logged.
func (w *Worker) store(ctx context.Context, req *http.Request, resp *http.Response) error {
	copied, err := NewResponse(resp)
	if err != nil {
		return err
	}
	c, err := w.storage.Open(ctx, w.name)
	if err != nil {
		w.logger.Printf("cache open failed for %s: %v", req.URL, err)
		return nil
	}
	if err := c.Put(ctx, RequestKey(req), copied); err != nil {
		w.logger.Printf("cache put failed for %s: %v", req.URL, err)
	}
	return nil
}

func (w *Worker) fallback(req *http.Request, cause error) (*http.Response, error) {
	if !IsDocument(req) {
		return nil, cause
	}
	root, err := w.Resolve("/")
	if err != nil {
		return nil, cause
	}
	cached, ok, err := w.storage.Match(req.Context(), Key(root))
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: %w", ErrOffline, cause)
	}
	w.logger.Printf("offline, serving cached document for %s", req.URL)
	return cached.HTTP(req), nil
}

// IsDocument reports whether req loads a top-level document. The
// Sec-Fetch-Dest header wins; without it, requests accepting HTML count.
func IsDocument(req *http.Request) bool {
	if dest := req.Header.Get("Sec-Fetch-Dest"); dest != "" {
		return dest == "document"
	}
	return strings.Contains(req.Header.Get("Accept"), "text/html")
}
