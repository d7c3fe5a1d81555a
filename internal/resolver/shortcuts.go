package resolver

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Shortcuts maps a shortcut name to the class tokens it stands for.
type Shortcuts struct {
	mu sync.RWMutex
	m  map[string][]string
}

// NewShortcuts returns an empty registry.
func NewShortcuts() *Shortcuts {
	return &Shortcuts{m: make(map[string][]string)}
}

// Register adds or replaces a shortcut. classSpec is a space separated class
// string and may use variants, groups and other shortcuts.
func (s *Shortcuts) Register(name, classSpec string) error {
	if name == "" || strings.ContainsAny(name, " \t\n:|()[],") {
		return fmt.Errorf("shortcut name %q: %w", name, ErrInvalidShortcut)
	}
	tokens := strings.Fields(classSpec)
	if len(tokens) == 0 {
		return fmt.Errorf("shortcut %q has no classes: %w", name, ErrInvalidShortcut)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[name] = tokens
	return nil
}

// Lookup returns the tokens registered under name.
func (s *Shortcuts) Lookup(name string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tokens, ok := s.m[name]
	return tokens, ok
}

// Names returns the registered names, sorted.
func (s *Shortcuts) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.m))
	for n := range s.m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
