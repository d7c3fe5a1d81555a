package livecss

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/yacobolo/livecss/internal/config"
	"github.com/yacobolo/livecss/internal/debounce"
	"github.com/yacobolo/livecss/internal/dom"
	"github.com/yacobolo/livecss/internal/logging"
	"github.com/yacobolo/livecss/internal/metrics"
	"github.com/yacobolo/livecss/internal/resolver"
	"github.com/yacobolo/livecss/internal/safe"
	"github.com/yacobolo/livecss/internal/viewport"
)

// ErrNoShortcuts is returned by Shortcut when the configured resolver does
// not support shortcut registration.
var ErrNoShortcuts = errors.New("resolver does not support shortcuts")

// Resolver turns class tokens into CSS. Expand maps a raw token to canonical
// tokens; Resolve maps one canonical token to zero or more rule texts.
type Resolver interface {
	Expand(token string) ([]string, error)
	Resolve(token string) ([]string, error)
}

// Runtime keeps the styling of one document in sync with the utility classes
// on its elements. All exported methods are safe for concurrent use.
type Runtime struct {
	mu sync.Mutex

	session   string
	doc       *dom.Document
	viewport  *viewport.Viewport
	cfg       *config.Store
	resolver  Resolver
	shortcuts *resolver.Shortcuts
	logger    *slog.Logger
	metrics   *metrics.Metrics
	clock     debounce.Clock

	processed map[string]struct{}
	order     []string
	sheet     *dom.Node

	debug      bool
	deferred   *InitOptions
	observer   *dom.Observer
	tracking   bool
	unsubs     []func()
	debouncer  *debounce.Timer
	breakpoint string
	closed     bool

	issues []Issue
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) { r.logger = l }
}

// WithMetrics records runtime counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runtime) { r.metrics = m }
}

// WithClock sets the clock driving the breakpoint debounce.
func WithClock(c debounce.Clock) Option {
	return func(r *Runtime) { r.clock = c }
}

// WithConfig shares a configuration store with the runtime.
func WithConfig(s *config.Store) Option {
	return func(r *Runtime) { r.cfg = s }
}

// WithViewport sets the viewport used for breakpoint tracking. The default is
// a 1280x800 viewport.
func WithViewport(v *viewport.Viewport) Option {
	return func(r *Runtime) { r.viewport = v }
}

// WithResolver replaces the built-in utility engine.
func WithResolver(res Resolver) Option {
	return func(r *Runtime) { r.resolver = res }
}

// WithShortcuts sets the registry used by the built-in utility engine.
func WithShortcuts(s *resolver.Shortcuts) Option {
	return func(r *Runtime) { r.shortcuts = s }
}

// New creates a runtime for doc. Nothing touches the document until Init,
// LoadClass or ResetCSS is called.
func New(doc *dom.Document, opts ...Option) *Runtime {
	r := &Runtime{
		doc:       doc,
		processed: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logging.NewNop()
	}
	if r.cfg == nil {
		r.cfg = config.NewStore(config.Default())
	}
	if r.viewport == nil {
		r.viewport = viewport.New(1280, 800)
	}
	if r.clock == nil {
		r.clock = debounce.SystemClock{}
	}
	if r.resolver == nil {
		if r.shortcuts == nil {
			r.shortcuts = resolver.NewShortcuts()
		}
		r.resolver = resolver.New(r.cfg, r.shortcuts)
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	r.session = id.String()
	r.logger = r.logger.With("session", r.session)
	return r
}

// Document returns the document the runtime is bound to.
func (r *Runtime) Document() *dom.Document { return r.doc }

// Viewport returns the viewport used for breakpoint tracking.
func (r *Runtime) Viewport() *viewport.Viewport { return r.viewport }

// Session returns the runtime's unique id, attached to every log line.
func (r *Runtime) Session() string { return r.session }

// Config returns the current configuration.
func (r *Runtime) Config() config.Config {
	return r.cfg.Get()
}

// SetConfig merges p into the configuration. Rules already injected are not
// regenerated.
func (r *Runtime) SetConfig(p config.Patch) error {
	if err := r.cfg.Merge(p); err != nil {
		return fmt.Errorf("set config: %w", err)
	}
	return nil
}

// Shortcut registers a named shortcut with the utility engine.
func (r *Runtime) Shortcut(name, classSpec string) error {
	if r.shortcuts == nil {
		return ErrNoShortcuts
	}
	return r.shortcuts.Register(name, classSpec)
}

// Debug reports whether debug mode is on.
func (r *Runtime) Debug() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.debug
}

// Issues returns the failures recorded so far.
func (r *Runtime) Issues() []Issue {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Issue(nil), r.issues...)
}

// report is the safe.Reporter for the runtime. Caller holds r.mu.
func (r *Runtime) report(f safe.Failure) {
	r.issues = append(r.issues, newIssue(f))
	r.metrics.Failure(f.Op)

	attrs := []any{"op", f.Op, "subject", f.Subject, "error", f.Err}
	if f.Stack != nil {
		attrs = append(attrs, "stack", string(f.Stack))
	}
	if r.debug {
		r.logger.Error("livecss failure", attrs...)
	} else {
		r.logger.Debug("livecss failure", attrs...)
	}
}
