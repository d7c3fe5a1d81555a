package livecss

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/yacobolo/livecss/internal/config"
	"github.com/yacobolo/livecss/internal/debounce"
	"github.com/yacobolo/livecss/internal/dom"
	"github.com/yacobolo/livecss/internal/logging"
	"github.com/yacobolo/livecss/internal/metrics"
	"github.com/yacobolo/livecss/internal/resolver"
	"github.com/yacobolo/livecss/internal/viewport"
)

// ErrUnknownPage is returned for page names the site has not loaded.
var ErrUnknownPage = errors.New("unknown page")

// BuildConfig holds the settings shared by build, watch and serve.
type BuildConfig struct {
	Root           string            // directory pages are discovered in
	Includes       []string          // ["**/*.html"]
	Excludes       []string          // doublestar patterns relative to Root
	OutDir         string            // where rewritten pages and stylesheets go; "" writes nothing
	BaseURL        string            // when set, a page's document URL is BaseURL/pages/<name>
	Init           InitOptions       // passed to every page runtime
	ViewportWidth  int               // default 1280
	ViewportHeight int               // default 800
	SizeObserver   bool              // use size observation instead of resize events
	Shortcuts      map[string]string // name -> class spec
	Config         *config.Store     // shared by every page; nil uses the defaults
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	Clock          debounce.Clock
}

// Page is one loaded document with its runtime.
type Page struct {
	Name    string
	Doc     *dom.Document
	Runtime *Runtime
}

// Site keeps a live runtime per page. Reloading a page swaps its body
// content into the existing document, so tokens already generated stay
// cached and only new elements are processed.
type Site struct {
	cfg       BuildConfig
	store     *config.Store
	shortcuts *resolver.Shortcuts
	logger    *slog.Logger

	mu    sync.Mutex
	pages map[string]*Page
}

// NewSite validates cfg and registers its shortcuts.
func NewSite(cfg BuildConfig) (*Site, error) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if len(cfg.Includes) == 0 {
		cfg.Includes = []string{"**/*.html"}
	}
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = 1280
	}
	if cfg.ViewportHeight <= 0 {
		cfg.ViewportHeight = 800
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	store := cfg.Config
	if store == nil {
		store = config.NewStore(config.Default())
	}

	shortcuts := resolver.NewShortcuts()
	names := make([]string, 0, len(cfg.Shortcuts))
	for name := range cfg.Shortcuts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := shortcuts.Register(name, cfg.Shortcuts[name]); err != nil {
			return nil, fmt.Errorf("shortcut %q: %w", name, err)
		}
	}

	return &Site{
		cfg:       cfg,
		store:     store,
		shortcuts: shortcuts,
		logger:    cfg.Logger,
		pages:     make(map[string]*Page),
	}, nil
}

// Config returns the configuration store shared by the site's pages.
func (s *Site) Config() *config.Store { return s.store }

// Discover lists the pages matched by the site's include patterns.
func (s *Site) Discover() ([]string, ScanStats, error) {
	return DiscoverPages(s.cfg.Root, s.cfg.Includes, s.cfg.Excludes, s.cfg.OutDir)
}

// Root returns the directory pages are discovered in.
func (s *Site) Root() string { return s.cfg.Root }

// Matches reports whether rel, a slash separated path relative to Root, is a
// page Discover would return.
func (s *Site) Matches(rel string) bool {
	included := false
	for _, pattern := range s.cfg.Includes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	return !newPageFilter(s.cfg.Root, s.cfg.Excludes, s.cfg.OutDir).skip(rel)
}

// Load reads the page from disk. The first load parses the document and
// initialises its runtime; later loads swap the new body content in.
func (s *Site) Load(name string) (*Page, error) {
	// #nosec G304 - name comes from page discovery under Root
	f, err := os.Open(filepath.Join(s.cfg.Root, filepath.FromSlash(name)))
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()

	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	s.mu.Lock()
	existing := s.pages[name]
	s.mu.Unlock()

	if existing != nil {
		existing.Doc.Body().ReplaceChildren(doc.Body().Children()...)
		existing.Doc.Flush()
		s.logger.Debug("page reloaded", "page", name, "tokens", len(existing.Runtime.Processed()))
		return existing, nil
	}

	if s.cfg.BaseURL != "" {
		doc.SetURL(strings.TrimSuffix(s.cfg.BaseURL, "/") + "/pages/" + name)
	}

	vp := viewport.New(s.cfg.ViewportWidth, s.cfg.ViewportHeight,
		viewport.WithSizeObservation(s.cfg.SizeObserver))
	opts := []Option{
		WithConfig(s.store),
		WithShortcuts(s.shortcuts),
		WithViewport(vp),
		WithLogger(s.logger.With("page", name)),
		WithMetrics(s.cfg.Metrics),
	}
	if s.cfg.Clock != nil {
		opts = append(opts, WithClock(s.cfg.Clock))
	}
	rt := New(doc, opts...)

	rt.Init(s.cfg.Init)
	doc.MarkReady(dom.Complete)
	doc.Flush()

	page := &Page{Name: name, Doc: doc, Runtime: rt}
	s.mu.Lock()
	s.pages[name] = page
	s.mu.Unlock()
	return page, nil
}

// Page returns a loaded page.
func (s *Site) Page(name string) (*Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}
	return p, nil
}

// Pages returns the loaded page names, sorted.
func (s *Site) Pages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.pages))
	for n := range s.pages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resize resizes every page viewport.
func (s *Site) Resize(width, height int) {
	s.mu.Lock()
	pages := make([]*Page, 0, len(s.pages))
	for _, p := range s.pages {
		pages = append(pages, p)
	}
	s.mu.Unlock()

	for _, p := range pages {
		p.Runtime.Viewport().Resize(width, height)
	}
}

// StylesheetName maps a page name to the name of its exported stylesheet:
// "blog/post.html" -> "blog/post.css".
func StylesheetName(page string) string {
	return strings.TrimSuffix(page, path.Ext(page)) + ".css"
}

// Write renders the page and its stylesheet into OutDir.
func (s *Site) Write(p *Page) error {
	if s.cfg.OutDir == "" {
		return nil
	}
	htmlPath := filepath.Join(s.cfg.OutDir, filepath.FromSlash(p.Name))
	if err := os.MkdirAll(filepath.Dir(htmlPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// #nosec G304 - path is derived from OutDir and a discovered page name
	f, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", htmlPath, err)
	}
	if err := p.Doc.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", p.Name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", htmlPath, err)
	}

	cssPath := filepath.Join(s.cfg.OutDir, filepath.FromSlash(StylesheetName(p.Name)))
	if err := os.WriteFile(cssPath, []byte(p.Runtime.Stylesheet()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", cssPath, err)
	}
	return nil
}

// Close stops every page runtime.
func (s *Site) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		p.Runtime.Close()
	}
}
