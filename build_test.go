package livecss

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/livecss/internal/report"
)

func TestBuild(t *testing.T) {
	out := t.TempDir()

	result, err := Build(BuildConfig{Root: "testdata/site", OutDir: out})
	require.NoError(t, err)
	require.Empty(t, result.Warnings)
	require.Equal(t, ScanStats{FilesDiscovered: 3, FilesScanned: 2, FilesSkipped: 1}, result.Scan)

	require.Len(t, result.Pages, 2)
	post, index := result.Pages[0], result.Pages[1]
	require.Equal(t, "blog/post.html", post.Page)
	require.Equal(t, "index.html", index.Page)
	require.Equal(t, 7, index.Tokens)
	require.Equal(t, 7, index.Stats.Rules)
	require.Equal(t, 4, index.Stats.Keyframes)
	require.Equal(t, 2, index.Stats.MediaRules)
	require.Empty(t, index.Issues)

	require.Len(t, result.Issues, 1)
	issue := result.Issues[0]
	require.Equal(t, "blog/post.html", issue.Page)
	require.Equal(t, "generate", issue.Op)
	require.Equal(t, "2xl|p-4", issue.Subject)
	require.Equal(t, SeverityWarning, issue.Severity)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	html, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	g.Assert(t, "index.html", html)

	css, err := os.ReadFile(filepath.Join(out, "index.css"))
	require.NoError(t, err)
	g.Assert(t, "index.css", css)

	require.FileExists(t, filepath.Join(out, "blog", "post.html"))
	require.FileExists(t, filepath.Join(out, "blog", "post.css"))
}

func TestBuild_Shortcuts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<html><head></head><body><a class="btn"></a></body></html>`)

	result, err := Build(BuildConfig{
		Root:      root,
		Shortcuts: map[string]string{"btn": "px-4 py-2 rounded"},
	})
	require.NoError(t, err)
	require.Len(t, result.Pages, 1)
	require.Equal(t, 3, result.Pages[0].Tokens)

	_, err = Build(BuildConfig{Root: root, Shortcuts: map[string]string{"bad name": "p-1"}})
	require.Error(t, err)
}

func TestSite_ReloadKeepsCache(t *testing.T) {
	root := t.TempDir()
	page := filepath.Join(root, "index.html")
	writeFile(t, page, `<html><head></head><body><p class="p-1"></p></body></html>`)

	site, err := NewSite(BuildConfig{Root: root})
	require.NoError(t, err)
	defer site.Close()

	first, err := site.Load("index.html")
	require.NoError(t, err)
	sheet := first.Runtime.Stylesheet()

	writeFile(t, page, `<html><head></head><body><p class="p-1"></p><p class="hover:p-2"></p></body></html>`)
	second, err := site.Load("index.html")
	require.NoError(t, err)
	require.Same(t, first, second)

	require.Equal(t, []string{"p-1", "hover|p-2"}, second.Runtime.Processed())
	require.Contains(t, second.Runtime.Stylesheet(), sheet)
	require.Len(t, second.Doc.Body().Children(), 2)
	require.Equal(t, []string{"index.html"}, site.Pages())

	_, err = site.Page("missing.html")
	require.ErrorIs(t, err, ErrUnknownPage)
}

func TestSite_Resize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `<html><head></head><body></body></html>`)

	site, err := NewSite(BuildConfig{
		Root:          root,
		Init:          InitOptions{Body: Bool(true)},
		ViewportWidth: 500,
		SizeObserver:  true,
	})
	require.NoError(t, err)
	defer site.Close()

	page, err := site.Load("index.html")
	require.NoError(t, err)
	require.Equal(t, "mobile", page.Runtime.Breakpoint())
	require.Equal(t, 500, page.Runtime.Viewport().Width())

	site.Resize(1400, 900)
	require.Equal(t, 1400, page.Runtime.Viewport().Width())
}

func TestStylesheetName(t *testing.T) {
	tests := []struct {
		page string
		want string
	}{
		{page: "index.html", want: "index.css"},
		{page: "blog/post.html", want: "blog/post.css"},
		{page: "about", want: "about.css"},
	}
	for _, tt := range tests {
		t.Run(tt.page, func(t *testing.T) {
			require.Equal(t, tt.want, StylesheetName(tt.page))
		})
	}
}

func TestSummarize(t *testing.T) {
	doc := newDoc(t, `<div class="p-4 zz:p-1"></div>`)
	rt := New(doc)
	rt.Init(InitOptions{Reset: Bool(false)})

	pr := Summarize(&Page{Name: "a.html", Doc: doc, Runtime: rt})
	require.Equal(t, 2, pr.Tokens)
	require.Equal(t, 1, pr.Stats.Rules)
	require.Equal(t, 1, pr.Stats.Categories[report.Layout])
	require.Len(t, pr.Issues, 1)
	require.Equal(t, "a.html", pr.Issues[0].Page)
}
