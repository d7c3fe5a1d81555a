// Package config holds the shared runtime configuration: the ordered
// breakpoint table and the behaviour flags read by the resolver and the
// breakpoint tracker.
package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/yacobolo/livecss/internal/viewport"
)

// ErrInvalid is wrapped by every validation error returned from Merge.
var ErrInvalid = errors.New("invalid configuration")

// Breakpoint maps an internal key ("m", "t", "d", ...) to a media query.
type Breakpoint struct {
	Key   string `mapstructure:"key" koanf:"key" json:"key" yaml:"key"`
	Query string `mapstructure:"query" koanf:"query" json:"query" yaml:"query"`
}

// Config is a snapshot of the configuration. Breakpoint order is significant:
// the first matching entry wins.
type Config struct {
	Breakpoints      []Breakpoint  `json:"breakpoints"`
	DebounceInterval time.Duration `json:"debounce"`
	MobileMaxWidth   int           `json:"mobile_max_width"` // fallback threshold when no query matches
	Important        bool          `json:"important"`        // emit declarations with !important
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Breakpoints: []Breakpoint{
			{Key: "m", Query: "(max-width: 768px)"},
			{Key: "t", Query: "(min-width: 769px) and (max-width: 1024px)"},
			{Key: "d", Query: "(min-width: 1025px)"},
		},
		DebounceInterval: 100 * time.Millisecond,
		MobileMaxWidth:   768,
	}
}

// Query returns the media query configured for key.
func (c Config) Query(key string) (string, bool) {
	for _, bp := range c.Breakpoints {
		if bp.Key == key {
			return bp.Query, true
		}
	}
	return "", false
}

func (c Config) clone() Config {
	out := c
	out.Breakpoints = append([]Breakpoint(nil), c.Breakpoints...)
	return out
}

// Patch is a partial Config. Nil fields are left untouched by Merge; a
// non-nil Breakpoints replaces the whole table.
type Patch struct {
	Breakpoints      []Breakpoint   `mapstructure:"breakpoints"`
	DebounceInterval *time.Duration `mapstructure:"debounce"`
	MobileMaxWidth   *int           `mapstructure:"mobile-max-width"`
	Important        *bool          `mapstructure:"important"`
}

// DecodePatch converts a loosely typed map (a JSON body, a YAML section) into
// a Patch. Unknown keys are rejected.
func DecodePatch(raw map[string]any) (Patch, error) {
	var p Patch
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Patch{}, fmt.Errorf("building decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return p, nil
}

// Store guards the shared configuration. Readers always see a complete
// snapshot; Merge swaps the whole value at once.
type Store struct {
	mu  sync.RWMutex
	cfg Config
}

// NewStore creates a store holding cfg.
func NewStore(cfg Config) *Store {
	return &Store{cfg: cfg.clone()}
}

// Get returns a copy of the current configuration.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.clone()
}

// Merge applies p as a shallow override. The result is validated first; on
// error the store is unchanged.
func (s *Store) Merge(p Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg.clone()
	if p.Breakpoints != nil {
		next.Breakpoints = append([]Breakpoint(nil), p.Breakpoints...)
	}
	if p.DebounceInterval != nil {
		next.DebounceInterval = *p.DebounceInterval
	}
	if p.MobileMaxWidth != nil {
		next.MobileMaxWidth = *p.MobileMaxWidth
	}
	if p.Important != nil {
		next.Important = *p.Important
	}

	if err := Validate(next); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

// Validate checks a configuration value.
func Validate(c Config) error {
	seen := make(map[string]bool, len(c.Breakpoints))
	for i, bp := range c.Breakpoints {
		if bp.Key == "" {
			return fmt.Errorf("%w: breakpoint %d has no key", ErrInvalid, i)
		}
		if seen[bp.Key] {
			return fmt.Errorf("%w: duplicate breakpoint %q", ErrInvalid, bp.Key)
		}
		seen[bp.Key] = true
		if _, err := viewport.ParseQuery(bp.Query); err != nil {
			return fmt.Errorf("%w: breakpoint %q: %v", ErrInvalid, bp.Key, err)
		}
	}
	if c.DebounceInterval <= 0 {
		return fmt.Errorf("%w: debounce interval must be positive", ErrInvalid)
	}
	if c.MobileMaxWidth <= 0 {
		return fmt.Errorf("%w: mobile max width must be positive", ErrInvalid)
	}
	return nil
}
