package livecss

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiscoverPages(t *testing.T) {
	tests := []struct {
		name      string
		includes  []string
		excludes  []string
		wantPages []string
		wantStats ScanStats
	}{
		{
			name:      "gitignore skips drafts",
			includes:  []string{"**/*.html"},
			wantPages: []string{"blog/post.html", "index.html"},
			wantStats: ScanStats{FilesDiscovered: 3, FilesScanned: 2, FilesSkipped: 1},
		},
		{
			name:      "exclude pattern",
			includes:  []string{"**/*.html"},
			excludes:  []string{"blog/**"},
			wantPages: []string{"index.html"},
			wantStats: ScanStats{FilesDiscovered: 3, FilesScanned: 1, FilesSkipped: 2},
		},
		{
			name:      "overlapping includes are deduplicated",
			includes:  []string{"**/*.html", "*.html"},
			wantPages: []string{"blog/post.html", "index.html"},
			wantStats: ScanStats{FilesDiscovered: 3, FilesScanned: 2, FilesSkipped: 1},
		},
		{
			name:      "no matches",
			includes:  []string{"**/*.htm"},
			wantStats: ScanStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, stats, err := DiscoverPages("testdata/site", tt.includes, tt.excludes, "")
			require.NoError(t, err)
			require.Equal(t, tt.wantPages, pages)
			require.Equal(t, tt.wantStats, stats)
		})
	}
}

func TestDiscoverPages_SkipsOutputDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), "<p></p>")
	writeFile(t, filepath.Join(root, "dist", "index.html"), "<p></p>")

	pages, stats, err := DiscoverPages(root, []string{"**/*.html"}, nil, filepath.Join(root, "dist"))
	require.NoError(t, err)
	require.Equal(t, []string{"index.html"}, pages)
	require.Equal(t, 1, stats.FilesSkipped)
}

func TestDiscoverPages_BadPattern(t *testing.T) {
	_, _, err := DiscoverPages("testdata/site", []string{"[*.html"}, nil, "")
	require.Error(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
