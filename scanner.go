package livecss

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ScanStats tracks page discovery statistics
type ScanStats struct {
	FilesDiscovered int // Total files found by glob patterns
	FilesScanned    int // Files kept after filtering
	FilesSkipped    int // Files skipped by excludes, .gitignore or the output dir
}

// pageFilter decides which discovered files are skipped.
type pageFilter struct {
	root     string
	excludes []string
	outDir   string
	gi       *ignore.GitIgnore
}

// newPageFilter loads root/.gitignore when present. A missing .gitignore is
// not an error.
func newPageFilter(root string, excludes []string, outDir string) *pageFilter {
	f := &pageFilter{root: root, excludes: excludes}
	if outDir != "" {
		if abs, err := filepath.Abs(outDir); err == nil {
			f.outDir = abs
		}
	}
	if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
		f.gi = gi
	}
	return f
}

// skip reports whether rel (relative to root, slash separated) is excluded.
func (f *pageFilter) skip(rel string) bool {
	for _, pattern := range f.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	if f.gi != nil && f.gi.MatchesPath(rel) {
		return true
	}
	if f.outDir != "" {
		if abs, err := filepath.Abs(filepath.Join(f.root, filepath.FromSlash(rel))); err == nil {
			if r, err := filepath.Rel(f.outDir, abs); err == nil && r != ".." && !startsWithParent(r) {
				return true
			}
		}
	}
	return false
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

// DiscoverPages expands include patterns under root and returns the matching
// files relative to root, sorted and without duplicates.
func DiscoverPages(root string, includes, excludes []string, outDir string) ([]string, ScanStats, error) {
	stats := ScanStats{}
	filter := newPageFilter(root, excludes, outDir)
	fsys := os.DirFS(root)

	seen := make(map[string]bool)
	var pages []string
	for _, pattern := range includes {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, stats, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true
			stats.FilesDiscovered++

			if filter.skip(match) {
				stats.FilesSkipped++
				continue
			}
			pages = append(pages, match)
			stats.FilesScanned++
		}
	}

	sort.Strings(pages)
	return pages, stats, nil
}
