package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/livecss"
	"github.com/yacobolo/livecss/internal/logging"
)

func writePage(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newWatchSite(t *testing.T) (*livecss.Site, string, string) {
	t.Helper()
	root := t.TempDir()
	out := filepath.Join(root, "dist")
	writePage(t, filepath.Join(root, "index.html"), `<html><head></head><body><p class="p-1"></p></body></html>`)

	site, err := livecss.NewSite(livecss.BuildConfig{Root: root, OutDir: out, Logger: logging.NewNop()})
	require.NoError(t, err)
	t.Cleanup(site.Close)
	return site, root, out
}

func TestBuildAll_CountsBuiltPages(t *testing.T) {
	site, root, out := newWatchSite(t)
	writePage(t, filepath.Join(root, "about.html"), `<html><head></head><body><p class="m-1"></p></body></html>`)
	require.NoError(t, os.MkdirAll(filepath.Join(out, "about.html"), 0o755))

	var buf strings.Builder
	require.NoError(t, buildAll(site, &buf))

	assert.Contains(t, buf.String(), "Warning: create ")
	assert.Contains(t, buf.String(), "Built 1 pages (0 skipped)\n")
	assert.FileExists(t, filepath.Join(out, "index.html"))
}

func TestChangedPage(t *testing.T) {
	site, root, out := newWatchSite(t)

	tests := []struct {
		name   string
		event  fsnotify.Event
		want   string
		wantOK bool
	}{
		{name: "write", event: fsnotify.Event{Name: filepath.Join(root, "index.html"), Op: fsnotify.Write}, want: "index.html", wantOK: true},
		{name: "create nested", event: fsnotify.Event{Name: filepath.Join(root, "a", "b.html"), Op: fsnotify.Create}, want: "a/b.html", wantOK: true},
		{name: "remove", event: fsnotify.Event{Name: filepath.Join(root, "index.html"), Op: fsnotify.Remove}},
		{name: "not a page", event: fsnotify.Event{Name: filepath.Join(root, "notes.txt"), Op: fsnotify.Write}},
		{name: "output dir", event: fsnotify.Event{Name: filepath.Join(out, "index.html"), Op: fsnotify.Write}},
		{name: "outside root", event: fsnotify.Event{Name: filepath.Join(filepath.Dir(root), "x.html"), Op: fsnotify.Write}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := changedPage(site, tt.event)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddDirs(t *testing.T) {
	site, root, out := newWatchSite(t)
	require.NoError(t, buildAll(site, io.Discard))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blog"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, addDirs(w, root, out))
	assert.ElementsMatch(t, []string{root, filepath.Join(root, "blog")}, w.WatchList())
}

func TestWatchLoop_RebuildsChangedPage(t *testing.T) {
	site, root, out := newWatchSite(t)
	require.NoError(t, buildAll(site, io.Discard))

	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, addDirs(w, root, out))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchLoop(ctx, site, w, out, logging.NewNop(), io.Discard) }()

	writePage(t, filepath.Join(root, "index.html"),
		`<html><head></head><body><p class="p-1"></p><p class="hover:p-2"></p></body></html>`)

	page, err := site.Page("index.html")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		for _, token := range page.Runtime.Processed() {
			if token == "hover|p-2" {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		css, err := os.ReadFile(filepath.Join(out, "index.css"))
		return err == nil && strings.Contains(string(css), `.hover\|p-2:hover`)
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

