package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Response is a fully buffered HTTP response that can be stored and replayed.
type Response struct {
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

// NewResponse buffers resp's body and rewinds it so the caller can still read it.
func NewResponse(resp *http.Response) (*Response, error) {
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	out := &Response{
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		out.URL = resp.Request.URL.String()
	}
	return out, nil
}

// Clone returns a deep copy of r.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}
	return &Response{
		URL:    r.URL,
		Status: r.Status,
		Header: r.Header.Clone(),
		Body:   append([]byte(nil), r.Body...),
	}
}

// HTTP materializes r as an *http.Response answering req.
func (r *Response) HTTP(req *http.Request) *http.Response {
	header := r.Header.Clone()
	if header == nil {
		header = make(http.Header)
	}
	return &http.Response{
		Status:        strconv.Itoa(r.Status) + " " + http.StatusText(r.Status),
		StatusCode:    r.Status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(r.Body)),
		ContentLength: int64(len(r.Body)),
		Request:       req,
	}
}

// Cache is one named cache instance. Keys are request URLs.
type Cache interface {
	Match(ctx context.Context, key string) (*Response, bool, error)
	Put(ctx context.Context, key string, resp *Response) error
	Delete(ctx context.Context, key string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
}

// Storage holds every named cache of the process.
type Storage interface {
	// Open returns the named cache, creating it if needed.
	Open(ctx context.Context, name string) (Cache, error)
	// Keys lists cache names in creation order.
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) (bool, error)
	// Match looks key up in every cache, oldest first.
	Match(ctx context.Context, key string) (*Response, bool, error)
}

// RequestKey identifies req inside a cache.
func RequestKey(req *http.Request) string {
	return Key(req.URL)
}

// Key normalizes u into a cache key. Fragments never reach the network and
// are dropped.
func Key(u *url.URL) string {
	if u == nil {
		return ""
	}
	cp := *u
	cp.Fragment = ""
	cp.RawFragment = ""
	return cp.String()
}
