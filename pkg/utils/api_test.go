package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIGetDecodesJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chapter/1", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer ts.Close()

	api := NewAPI(ts.URL+"/", ts.Client())
	assert.Equal(t, ts.URL, api.BaseURL())

	var out struct {
		Result string `json:"result"`
	}
	err := api.Get(context.Background(), "/chapter/1", url.Values{"lang": {"en"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Result)
}

func TestAPIGetReportsStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer ts.Close()

	var out map[string]any
	err := NewAPI(ts.URL, ts.Client()).Get(context.Background(), "/missing", nil, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "not here")
}
