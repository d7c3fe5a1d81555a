// Package viewport models the size of the visible area of a document and the
// signals emitted when it changes. It also evaluates media queries against it.
package viewport

import (
	"errors"
	"sort"
	"sync"
)

// ErrUnsupported is returned by ObserveSize when the viewport was built
// without size observation.
var ErrUnsupported = errors.New("size observation not supported")

// Option configures a Viewport.
type Option func(*Viewport)

// WithSizeObservation toggles the size-observation capability. It is on by default.
func WithSizeObservation(enabled bool) Option {
	return func(v *Viewport) {
		v.sizeObservation = enabled
	}
}

// WithColorScheme sets the preferred color scheme ("light" or "dark").
func WithColorScheme(scheme string) Option {
	return func(v *Viewport) {
		v.env.ColorScheme = scheme
	}
}

// Viewport is safe for concurrent use. Listeners are invoked outside the lock,
// in registration order.
type Viewport struct {
	mu              sync.Mutex
	env             Env
	sizeObservation bool
	nextID          int
	sizeObservers   map[int]func()
	resizeListeners map[int]func()
	queries         map[string]Query
}

// New creates a viewport of the given size.
func New(width, height int, opts ...Option) *Viewport {
	v := &Viewport{
		env:             Env{Width: width, Height: height, ColorScheme: "light"},
		sizeObservation: true,
		sizeObservers:   make(map[int]func()),
		resizeListeners: make(map[int]func()),
		queries:         make(map[string]Query),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Size returns the current width and height in CSS pixels.
func (v *Viewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.env.Width, v.env.Height
}

// Width returns the current width in CSS pixels.
func (v *Viewport) Width() int {
	w, _ := v.Size()
	return w
}

// SupportsSizeObservation reports whether ObserveSize can be used.
func (v *Viewport) SupportsSizeObservation() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.sizeObservation
}

// Resize changes the viewport size. Size observers are notified when the size
// actually changed; resize listeners are notified on every call.
func (v *Viewport) Resize(width, height int) {
	v.mu.Lock()
	changed := v.env.Width != width || v.env.Height != height
	v.env.Width, v.env.Height = width, height
	var fire []func()
	if changed {
		fire = append(fire, ordered(v.sizeObservers)...)
	}
	fire = append(fire, ordered(v.resizeListeners)...)
	v.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// SetColorScheme changes the preferred color scheme. It does not emit signals.
func (v *Viewport) SetColorScheme(scheme string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.env.ColorScheme = scheme
}

// Matches evaluates a media query against the current state. Queries that do
// not parse never match.
func (v *Viewport) Matches(query string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	q, ok := v.queries[query]
	if !ok {
		parsed, err := ParseQuery(query)
		if err != nil {
			return false
		}
		q = parsed
		v.queries[query] = q
	}
	return q.Match(v.env)
}

// ObserveSize registers fn to run whenever the size changes. The returned
// function removes the registration.
func (v *Viewport) ObserveSize(fn func()) (func(), error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.sizeObservation {
		return nil, ErrUnsupported
	}
	return v.register(v.sizeObservers, fn), nil
}

// OnResize registers fn as a global resize listener.
func (v *Viewport) OnResize(fn func()) func() {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.register(v.resizeListeners, fn)
}

func (v *Viewport) register(set map[int]func(), fn func()) func() {
	id := v.nextID
	v.nextID++
	set[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(set, id)
	}
}

func ordered(set map[int]func()) []func() {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, set[id])
	}
	return fns
}
