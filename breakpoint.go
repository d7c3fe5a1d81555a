package livecss

import (
	"github.com/yacobolo/livecss/internal/config"
	"github.com/yacobolo/livecss/internal/debounce"
)

var friendlyNames = map[string]string{
	"m": "mobile",
	"t": "tablet",
	"d": "desktop",
}

// FriendlyName maps a breakpoint key to the class put on body. Keys without
// a friendly name are used as is.
func FriendlyName(key string) string {
	if name, ok := friendlyNames[key]; ok {
		return name
	}
	return key
}

// currentBreakpoint returns the key of the first configured breakpoint whose
// query matches. Without a match the width decides between "m" and "d";
// there is no tablet fallback.
func (r *Runtime) currentBreakpoint(cfg config.Config) string {
	for _, bp := range cfg.Breakpoints {
		if r.viewport.Matches(bp.Query) {
			return bp.Key
		}
	}
	if r.viewport.Width() <= cfg.MobileMaxWidth {
		return "m"
	}
	return "d"
}

// trackBreakpoints evaluates the breakpoint now and again, debounced, on
// every size signal. Later calls only re-evaluate. Caller holds r.mu.
func (r *Runtime) trackBreakpoints() {
	if r.tracking {
		r.updateBreakpoint()
		return
	}
	r.tracking = true
	r.updateBreakpoint()

	r.debouncer = debounce.New(r.debouncedUpdate, r.cfg.Get().DebounceInterval, r.clock)
	if stop, err := r.viewport.ObserveSize(r.debouncer.Schedule); err == nil {
		r.unsubs = append(r.unsubs, stop)
		return
	}
	r.logger.Debug("size observation unavailable, using resize events")
	r.unsubs = append(r.unsubs, r.viewport.OnResize(r.debouncer.Schedule))
}

// debouncedUpdate runs on the clock's goroutine. Body class changes are
// delivered to the watcher before it returns.
func (r *Runtime) debouncedUpdate() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.updateBreakpoint()
	r.mu.Unlock()

	r.doc.Flush()
}

// updateBreakpoint moves the body class to the current breakpoint. Nothing
// is written when the breakpoint is unchanged. Caller holds r.mu.
func (r *Runtime) updateBreakpoint() {
	cfg := r.cfg.Get()
	key := r.currentBreakpoint(cfg)
	name := FriendlyName(key)

	if r.debug {
		r.logger.Info("breakpoint check",
			"current", key,
			"friendly", name,
			"width", r.viewport.Width(),
		)
	}
	if name == r.breakpoint {
		return
	}

	body := r.doc.Body()
	if body == nil {
		return
	}
	if r.breakpoint != "" {
		body.RemoveClass(r.breakpoint)
	}
	body.AddClass(name)
	r.logger.Debug("breakpoint changed", "from", r.breakpoint, "to", name)
	r.breakpoint = name
	r.metrics.Transition(name)
}

// Breakpoint returns the body class currently applied, or "" when tracking
// has not started.
func (r *Runtime) Breakpoint() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.breakpoint
}
