package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yacobolo/livecss"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Build pages and rebuild them when they change",
	Long: `Build every page once, then watch the page directory. A changed page's
body is swapped into its live document: tokens already generated stay cached
and only the new elements are processed.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()
	cfg, err := buildSiteConfig(logger, nil)
	if err != nil {
		return err
	}

	site, err := livecss.NewSite(cfg)
	if err != nil {
		return err
	}
	defer site.Close()

	out := cmd.OutOrStdout()
	if err := buildAll(site, out); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, site.Root(), cfg.OutDir); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(out, "Watching %s for changes...\n", site.Root())
	fmt.Fprintln(out, "Press Ctrl+C to stop")
	return watchLoop(ctx, site, watcher, cfg.OutDir, logger, out)
}

// buildAll loads and writes every discovered page.
func buildAll(site *livecss.Site, out io.Writer) error {
	pages, stats, err := site.Discover()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	built := 0
	for _, name := range pages {
		if err := rebuild(site, name); err != nil {
			fmt.Fprintf(out, "Warning: %v\n", err)
			continue
		}
		built++
	}
	fmt.Fprintf(out, "Built %d pages (%d skipped)\n", built, stats.FilesSkipped)
	return nil
}

// addDirs watches root and every directory below it, except outDir and
// hidden directories.
func addDirs(w *fsnotify.Watcher, root, outDir string) error {
	skip := ""
	if outDir != "" {
		skip, _ = filepath.Abs(outDir)
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if abs, _ := filepath.Abs(path); skip != "" && abs == skip {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func watchLoop(ctx context.Context, site *livecss.Site, w *fsnotify.Watcher, outDir string, logger *slog.Logger, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addDirs(w, ev.Name, outDir); err != nil {
						logger.Warn("watching new directory failed", "dir", ev.Name, "error", err)
					}
					continue
				}
			}
			name, ok := changedPage(site, ev)
			if !ok {
				continue
			}
			fmt.Fprintf(out, "%s changed, rebuilding...\n", name)
			if err := rebuild(site, name); err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}

// changedPage maps a write or create event to the page name it affects.
func changedPage(site *livecss.Site, ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	rel, err := filepath.Rel(site.Root(), ev.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !site.Matches(rel) {
		return "", false
	}
	return rel, true
}

// rebuild loads a page into the site and writes its outputs.
func rebuild(site *livecss.Site, name string) error {
	page, err := site.Load(name)
	if err != nil {
		return err
	}
	if err := site.Write(page); err != nil {
		return err
	}
	return nil
}
