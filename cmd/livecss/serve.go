package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/yacobolo/livecss"
	"github.com/yacobolo/livecss/internal/config"
	"github.com/yacobolo/livecss/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve live pages over HTTP",
	Long: `Load every page into a live runtime and serve the rewritten pages, their
stylesheets, the runtime configuration and Prometheus metrics. Configuration
and viewport changes apply to the running pages.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "localhost:8080", "Listen address")
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := buildLogger()
	addr := getStringWithFallback("serve.addr", "localhost:8080")

	reg := prometheus.NewRegistry()
	cfg, err := buildSiteConfig(logger, metrics.New(reg))
	if err != nil {
		return err
	}
	cfg.OutDir = ""
	cfg.BaseURL = "http://" + addr

	site, err := livecss.NewSite(cfg)
	if err != nil {
		return err
	}
	defer site.Close()

	if err := buildAll(site, cmd.OutOrStdout()); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(site, reg, logger).routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type server struct {
	site     *livecss.Site
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

func newServer(site *livecss.Site, gatherer prometheus.Gatherer, logger *slog.Logger) *server {
	return &server{site: site, gatherer: gatherer, logger: logger}
}

// pageInfo is one entry of the page index.
type pageInfo struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	Stylesheet string `json:"stylesheet"`
	Breakpoint string `json:"breakpoint,omitempty"`
	Tokens     int    `json:"tokens"`
	Issues     int    `json:"issues"`
}

// configView is the JSON shape of the runtime configuration. PUT /config
// accepts any subset of it.
type configView struct {
	Breakpoints    []config.Breakpoint `json:"breakpoints"`
	Debounce       string              `json:"debounce"`
	MobileMaxWidth int                 `json:"mobile-max-width"`
	Important      bool                `json:"important"`
}

type viewportRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Get("/pages/*", s.page)
	r.Get("/styles/*", s.stylesheet)
	r.Get("/config", s.getConfig)
	r.Put("/config", s.putConfig)
	r.Post("/viewport", s.resize)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *server) index(w http.ResponseWriter, _ *http.Request) {
	names := s.site.Pages()
	pages := make([]pageInfo, 0, len(names))
	for _, name := range names {
		p, err := s.site.Page(name)
		if err != nil {
			continue
		}
		pages = append(pages, pageInfo{
			Name:       name,
			URL:        "/pages/" + name,
			Stylesheet: "/styles/" + livecss.StylesheetName(name),
			Breakpoint: p.Runtime.Breakpoint(),
			Tokens:     len(p.Runtime.Processed()),
			Issues:     len(p.Runtime.Issues()),
		})
	}
	s.writeJSON(w, http.StatusOK, pages)
}

func (s *server) page(w http.ResponseWriter, r *http.Request) {
	p, err := s.site.Page(chi.URLParam(r, "*"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.Doc.Render(w); err != nil {
		s.logger.Error("render failed", "page", p.Name, "error", err)
	}
}

func (s *server) stylesheet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	for _, page := range s.site.Pages() {
		if livecss.StylesheetName(page) != name {
			continue
		}
		p, err := s.site.Page(page)
		if err != nil {
			break
		}
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write([]byte(p.Runtime.Stylesheet()))
		return
	}
	http.Error(w, "unknown stylesheet: "+name, http.StatusNotFound)
}

func (s *server) getConfig(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, viewOf(s.site.Config().Get()))
}

func (s *server) putConfig(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		s.logger.Warn("config: invalid request body", "error", err)
		return
	}

	patch, err := config.DecodePatch(raw)
	if err == nil {
		err = s.site.Config().Merge(patch)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalid) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	s.logger.Info("configuration updated")
	s.writeJSON(w, http.StatusOK, viewOf(s.site.Config().Get()))
}

func (s *server) resize(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Width <= 0 || req.Height <= 0 {
		http.Error(w, "width and height must be positive", http.StatusBadRequest)
		return
	}

	s.site.Resize(req.Width, req.Height)
	// The breakpoint follows after the debounce window.
	s.writeJSON(w, http.StatusAccepted, req)
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func viewOf(c config.Config) configView {
	return configView{
		Breakpoints:    c.Breakpoints,
		Debounce:       c.DebounceInterval.String(),
		MobileMaxWidth: c.MobileMaxWidth,
		Important:      c.Important,
	}
}

