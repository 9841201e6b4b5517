package cache

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://localhost:5173"

var errNetworkDown = errors.New("network down")

type fakeNetwork struct {
	mu      sync.Mutex
	calls   map[string]int
	total   int
	offline bool
	status  map[string]int
}

func newFakeNetwork() *fakeNetwork {
	return &fakeNetwork{calls: make(map[string]int), status: make(map[string]int)}
}

func (f *fakeNetwork) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.total++
	f.calls[req.URL.String()]++
	if f.offline {
		return nil, errNetworkDown
	}
	status, ok := f.status[req.URL.String()]
	if !ok {
		status = http.StatusOK
	}
	body := "body:" + req.URL.String()
	return &http.Response{
		Status:     http.StatusText(status),
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/plain"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}, nil
}

func (f *fakeNetwork) setOffline(offline bool) {
	f.mu.Lock()
	f.offline = offline
	f.mu.Unlock()
}

func (f *fakeNetwork) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.total
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newStartedWorker(t *testing.T, storage Storage, network http.RoundTripper, version string, opts ...Option) *Worker {
	t.Helper()
	opts = append(opts, WithLogger(quietLogger()))
	w, err := NewWorker(storage, network, version, testOrigin, opts...)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	return w
}

func get(t *testing.T, w *Worker, url string, header http.Header) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	return w.RoundTrip(req)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestWorkerStartCachesShellAssets(t *testing.T) {
	storage := NewMemoryStorage()
	network := newFakeNetwork()
	w := newStartedWorker(t, storage, network, "v1")

	assert.Equal(t, PhaseActivated, w.Phase())
	assert.True(t, w.Claimed())
	assert.Equal(t, "yomu-reader-v1", w.Name())

	c, err := storage.Open(context.Background(), w.Name())
	require.NoError(t, err)
	keys, err := c.Keys(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		testOrigin + "/",
		testOrigin + "/manifest.json",
		DefaultAssets[2],
	}, keys)
}

func TestWorkerInstallIsAllOrNothing(t *testing.T) {
	storage := NewMemoryStorage()
	network := newFakeNetwork()
	network.status[testOrigin+"/manifest.json"] = http.StatusNotFound

	w, err := NewWorker(storage, network, "v1", testOrigin, WithLogger(quietLogger()))
	require.NoError(t, err)

	err = w.Install(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstallFailed)
	assert.Equal(t, PhaseRedundant, w.Phase())

	c, err := storage.Open(context.Background(), w.Name())
	require.NoError(t, err)
	keys, err := c.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, keys)

	assert.Error(t, w.Activate(context.Background()))
}

func TestWorkerRestartOfflineResumesInstalledCache(t *testing.T) {
	storage := NewMemoryStorage()
	network := newFakeNetwork()
	newStartedWorker(t, storage, network, "v1")

	network.setOffline(true)
	w, err := NewWorker(storage, network, "v1", testOrigin, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	assert.Equal(t, PhaseActivated, w.Phase())
	assert.True(t, w.Claimed())

	resp, err := get(t, w, testOrigin+"/manifest.json", nil)
	require.NoError(t, err)
	assert.Equal(t, "body:"+testOrigin+"/manifest.json", readBody(t, resp))

	resp, err = get(t, w, testOrigin+"/chapter/1", http.Header{"Accept": []string{"text/html"}})
	require.NoError(t, err)
	assert.Equal(t, "body:"+testOrigin+"/", readBody(t, resp))
}

func TestWorkerStartOfflineWithoutCacheFails(t *testing.T) {
	storage := NewMemoryStorage()
	network := newFakeNetwork()
	network.setOffline(true)

	w, err := NewWorker(storage, network, "v1", testOrigin, WithLogger(quietLogger()))
	require.NoError(t, err)

	err = w.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInstallFailed)
	assert.ErrorIs(t, err, ErrNotInstalled)
	assert.Equal(t, PhaseRedundant, w.Phase())
	assert.False(t, w.Claimed())

	// The failed install left an empty cache behind; it must not be resumed.
	second, err := NewWorker(storage, network, "v1", testOrigin, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.ErrorIs(t, second.Start(context.Background()), ErrNotInstalled)
	assert.False(t, second.Claimed())
}

func TestWorkerResumeNeedsCurrentVersion(t *testing.T) {
	storage := NewMemoryStorage()
	network := newFakeNetwork()
	newStartedWorker(t, storage, network, "v1")

	w, err := NewWorker(storage, network, "v2", testOrigin, WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.ErrorIs(t, w.Resume(context.Background()), ErrNotInstalled)
	assert.False(t, w.Claimed())
}

func TestWorkerServesCachedWithoutNetwork(t *testing.T) {
	network := newFakeNetwork()
	w := newStartedWorker(t, NewMemoryStorage(), network, "v1")
	before := network.count()

	resp, err := get(t, w, testOrigin+"/manifest.json", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body:"+testOrigin+"/manifest.json", readBody(t, resp))
	assert.Equal(t, before, network.count(), "cached request must not touch the network")
}

func TestWorkerStoresSuccessfulMisses(t *testing.T) {
	network := newFakeNetwork()
	w := newStartedWorker(t, NewMemoryStorage(), network, "v1")
	before := network.count()
	pageURL := "https://uploads.example.com/data/hash/1.png"

	resp, err := get(t, w, pageURL, nil)
	require.NoError(t, err)
	assert.Equal(t, "body:"+pageURL, readBody(t, resp))
	assert.Equal(t, before+1, network.count())

	resp, err = get(t, w, pageURL+"#fragment", nil)
	require.NoError(t, err)
	assert.Equal(t, "body:"+pageURL, readBody(t, resp))
	assert.Equal(t, before+1, network.count(), "second request must be served from cache")
}

func TestWorkerDoesNotStoreNonOK(t *testing.T) {
	network := newFakeNetwork()
	w := newStartedWorker(t, NewMemoryStorage(), network, "v1")
	missing := testOrigin + "/missing.png"
	network.status[missing] = http.StatusNotFound
	before := network.count()

	for i := 0; i < 2; i++ {
		resp, err := get(t, w, missing, nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	}
	assert.Equal(t, before+2, network.count())
}

func TestWorkerPassesThroughUninterceptedRequests(t *testing.T) {
	network := newFakeNetwork()
	storage := NewMemoryStorage()
	w := newStartedWorker(t, storage, network, "v1")

	t.Run("non-GET", func(t *testing.T) {
		before := network.count()
		req, err := http.NewRequest(http.MethodPost, testOrigin+"/manifest.json", strings.NewReader("{}"))
		require.NoError(t, err)
		resp, err := w.RoundTrip(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, before+1, network.count(), "POST must reach the network even when cached")
	})

	t.Run("non-http scheme", func(t *testing.T) {
		before := network.count()
		req, err := http.NewRequest(http.MethodGet, "chrome-extension://abc/script.js", nil)
		require.NoError(t, err)
		resp, err := w.RoundTrip(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, before+1, network.count())

		_, ok, err := storage.Match(context.Background(), "chrome-extension://abc/script.js")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestWorkerPassesThroughBeforeActivation(t *testing.T) {
	network := newFakeNetwork()
	w, err := NewWorker(NewMemoryStorage(), network, "v1", testOrigin, WithLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, w.Install(context.Background()))
	assert.False(t, w.Claimed())
	before := network.count()

	resp, err := get(t, w, testOrigin+"/manifest.json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, before+1, network.count())
}

func TestWorkerActivateDropsOldVersions(t *testing.T) {
	storage := NewMemoryStorage()
	network := newFakeNetwork()
	ctx := context.Background()

	_, err := storage.Open(ctx, "unrelated-cache")
	require.NoError(t, err)
	newStartedWorker(t, storage, network, "v1")
	names, err := storage.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"yomu-reader-v1"}, names)

	newStartedWorker(t, storage, network, "v2")
	names, err = storage.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"yomu-reader-v2"}, names)
}

func TestWorkerOfflineDocumentFallsBackToRoot(t *testing.T) {
	storage := NewMemoryStorage()
	network := newFakeNetwork()
	w := newStartedWorker(t, storage, network, "v1")

	root, ok, err := storage.Match(context.Background(), testOrigin+"/")
	require.NoError(t, err)
	require.True(t, ok)

	network.setOffline(true)
	resp, err := get(t, w, testOrigin+"/chapter/42", http.Header{"Sec-Fetch-Dest": []string{"document"}})
	require.NoError(t, err)
	assert.Equal(t, string(root.Body), readBody(t, resp))
}

func TestWorkerOfflineAssetPropagatesError(t *testing.T) {
	network := newFakeNetwork()
	w := newStartedWorker(t, NewMemoryStorage(), network, "v1")

	network.setOffline(true)
	_, err := get(t, w, testOrigin+"/page.png", http.Header{"Sec-Fetch-Dest": []string{"image"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errNetworkDown)
}

func TestWorkerOfflineDocumentWithoutRoot(t *testing.T) {
	network := newFakeNetwork()
	w := newStartedWorker(t, NewMemoryStorage(), network, "v1", WithAssets([]string{"/manifest.json"}))

	network.setOffline(true)
	_, err := get(t, w, testOrigin+"/reader", http.Header{"Accept": []string{"text/html,application/xhtml+xml"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOffline)
	assert.ErrorIs(t, err, errNetworkDown)
}

func TestNewWorkerValidation(t *testing.T) {
	_, err := NewWorker(nil, nil, "v1", testOrigin)
	assert.Error(t, err)

	_, err = NewWorker(NewMemoryStorage(), nil, "", testOrigin)
	assert.Error(t, err)

	_, err = NewWorker(NewMemoryStorage(), nil, "v1", "file:///tmp")
	assert.Error(t, err)
}

func TestIsDocument(t *testing.T) {
	req, _ := http.NewRequest(http.MethodGet, testOrigin, nil)
	assert.False(t, IsDocument(req))

	req.Header.Set("Accept", "text/html")
	assert.True(t, IsDocument(req))

	req.Header.Set("Sec-Fetch-Dest", "image")
	assert.False(t, IsDocument(req), "Sec-Fetch-Dest wins over Accept")
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "activated", PhaseActivated.String())
	assert.Equal(t, "unknown", Phase(99).String())
}
