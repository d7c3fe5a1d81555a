package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/livecss"
	"github.com/yacobolo/livecss/internal/debounce"
	"github.com/yacobolo/livecss/internal/logging"
	"github.com/yacobolo/livecss/internal/metrics"
)

func newTestServer(t *testing.T) (*httptest.Server, *livecss.Site, *debounce.ManualClock) {
	t.Helper()
	root := t.TempDir()
	writePage(t, filepath.Join(root, "index.html"), `<html><head></head><body><main class="p-4 hover:bg-red"></main></body></html>`)
	writePage(t, filepath.Join(root, "blog", "post.html"), `<html><head></head><body><h1 class="text-2xl dark:text-white">Post</h1></body></html>`)

	reg := prometheus.NewRegistry()
	clock := debounce.NewManualClock()
	site, err := livecss.NewSite(livecss.BuildConfig{
		Root:    root,
		Init:    livecss.InitOptions{Body: livecss.Bool(true)},
		BaseURL: "http://localhost:8080",
		Metrics: metrics.New(reg),
		Clock:   clock,
		Logger:  logging.NewNop(),
	})
	require.NoError(t, err)
	t.Cleanup(site.Close)
	require.NoError(t, buildAll(site, io.Discard))

	ts := httptest.NewServer(newServer(site, reg, logging.NewNop()).routes())
	t.Cleanup(ts.Close)
	return ts, site, clock
}

func do(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestServe_Index(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pages []pageInfo
	require.NoError(t, json.Unmarshal([]byte(body), &pages))
	require.Len(t, pages, 2)
	assert.Equal(t, "blog/post.html", pages[0].Name)
	assert.Equal(t, "/styles/blog/post.css", pages[0].Stylesheet)
	assert.Equal(t, "index.html", pages[1].Name)
	assert.Equal(t, "desktop", pages[1].Breakpoint)
	assert.Equal(t, 3, pages[1].Tokens, "two utilities and the body breakpoint class")
}

func TestServe_PagesAndStyles(t *testing.T) {
	ts, _, _ := newTestServer(t)

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantType    string
		wantContain string
	}{
		{name: "page", path: "/pages/index.html", wantStatus: http.StatusOK, wantType: "text/html", wantContain: `class="p-4 hover|bg-red"`},
		{name: "nested page", path: "/pages/blog/post.html", wantStatus: http.StatusOK, wantType: "text/html", wantContain: `class="text-2xl dark|text-white"`},
		{name: "unknown page", path: "/pages/missing.html", wantStatus: http.StatusNotFound},
		{name: "stylesheet", path: "/styles/index.css", wantStatus: http.StatusOK, wantType: "text/css", wantContain: ".p-4 { padding: 1rem; }"},
		{name: "nested stylesheet", path: "/styles/blog/post.css", wantStatus: http.StatusOK, wantType: "text/css", wantContain: "@media (prefers-color-scheme: dark)"},
		{name: "unknown stylesheet", path: "/styles/missing.css", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, ts.URL+tt.path, "")
			require.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantType != "" {
				assert.Contains(t, resp.Header.Get("Content-Type"), tt.wantType)
			}
			assert.Contains(t, body, tt.wantContain)
		})
	}
}

func TestServe_DebugFromBaseURL(t *testing.T) {
	ts, site, _ := newTestServer(t)

	page, err := site.Page("index.html")
	require.NoError(t, err)
	assert.True(t, page.Runtime.Debug())

	_, body := do(t, http.MethodGet, ts.URL+"/pages/index.html", "")
	assert.Contains(t, body, `data-livecss-original="p-4 hover:bg-red"`)
}

func TestServe_Config(t *testing.T) {
	ts, site, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/config", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var view configView
	require.NoError(t, json.Unmarshal([]byte(body), &view))
	assert.Equal(t, "100ms", view.Debounce)
	assert.Len(t, view.Breakpoints, 3)

	resp, body = do(t, http.MethodPut, ts.URL+"/config", `{"debounce": "250ms", "important": true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal([]byte(body), &view))
	assert.Equal(t, "250ms", view.Debounce)
	assert.True(t, view.Important)
	assert.Equal(t, 250*time.Millisecond, site.Config().Get().DebounceInterval)

	rejected := []string{
		`{"breakpoints": [{"key": "", "query": "(min-width: 1px)"}]}`,
		`{"mobile-max-width": -1}`,
		`{"colour": "red"}`,
		`not json`,
	}
	for _, body := range rejected {
		resp, _ := do(t, http.MethodPut, ts.URL+"/config", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
	assert.Equal(t, 250*time.Millisecond, site.Config().Get().DebounceInterval)
}

func TestServe_Viewport(t *testing.T) {
	ts, site, clock := newTestServer(t)

	resp, _ := do(t, http.MethodPost, ts.URL+"/viewport", `{"width": 500, "height": 800}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	page, err := site.Page("index.html")
	require.NoError(t, err)
	assert.Equal(t, 500, page.Runtime.Viewport().Width())
	assert.Equal(t, "desktop", page.Runtime.Breakpoint())

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, "mobile", page.Runtime.Breakpoint())

	resp, _ = do(t, http.MethodPost, ts.URL+"/viewport", `{"width": 0, "height": 800}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServe_Metrics(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "livecss_tokens_generated_total")
	assert.Contains(t, body, `livecss_breakpoint_transitions_total{to="desktop"} 2`)
}
