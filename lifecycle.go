package livecss

import (
	"github.com/yacobolo/livecss/internal/dom"
)

// debugPortThreshold: documents served from a port above this are assumed to
// be development servers and get debug mode by default.
const debugPortThreshold = 2000

// InitOptions controls Init. Nil fields take their defaults.
type InitOptions struct {
	Debug      *bool // default: document URL port > 2000
	Reset      *bool // default: true
	Body       *bool // default: false
	ClearCache *bool // default: true
}

// Bool returns a pointer to b, for InitOptions literals.
func Bool(b bool) *bool { return &b }

type initSettings struct {
	debug, reset, body, clearCache bool
}

func (r *Runtime) settings(o InitOptions) initSettings {
	s := initSettings{
		debug:      r.doc.Port() > debugPortThreshold,
		reset:      true,
		body:       false,
		clearCache: true,
	}
	if o.Debug != nil {
		s.debug = *o.Debug
	}
	if o.Reset != nil {
		s.reset = *o.Reset
	}
	if o.Body != nil {
		s.body = *o.Body
	}
	if o.ClearCache != nil {
		s.clearCache = *o.ClearCache
	}
	return s
}

// Init starts the runtime: it applies the reset sheet, processes every
// element that has a class attribute, watches body for changes and, when
// requested, tracks the breakpoint on body.
//
// While the document is still loading Init is deferred until it is ready.
// Calling Init again before then replaces the deferred options.
func (r *Runtime) Init(opts InitOptions) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if r.doc.ReadyState() == dom.Loading {
		first := r.deferred == nil
		o := opts
		r.deferred = &o
		r.mu.Unlock()
		if first {
			r.logger.Debug("document loading, init deferred")
			r.doc.OnReady(r.runDeferred)
		}
		return
	}
	defer r.mu.Unlock()
	r.init(opts)
}

func (r *Runtime) runDeferred() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deferred == nil || r.closed {
		return
	}
	opts := *r.deferred
	r.deferred = nil
	r.init(opts)
}

// init runs the init sequence. Caller holds r.mu.
func (r *Runtime) init(opts InitOptions) {
	s := r.settings(opts)
	r.debug = s.debug

	if s.clearCache {
		r.processed = make(map[string]struct{})
		r.order = nil
	}
	if s.reset {
		r.resetCSS()
	}

	elements := 0
	if root := r.doc.DocumentElement(); root != nil {
		elements = r.processTree(root)
	}

	r.watch()
	if s.body {
		r.trackBreakpoints()
	}

	r.logger.Debug("livecss initialised",
		"debug", s.debug,
		"reset", s.reset,
		"body", s.body,
		"elements", elements,
		"tokens", len(r.order),
	)
}

// Close detaches the observer and size listeners and cancels a pending
// breakpoint evaluation. The stylesheet and body class are left in place.
func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.deferred = nil

	if r.observer != nil {
		r.observer.Disconnect()
		r.observer = nil
	}
	for _, stop := range r.unsubs {
		stop()
	}
	r.unsubs = nil
	if r.debouncer != nil {
		r.debouncer.Cancel()
	}
}
