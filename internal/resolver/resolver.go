// Package resolver is the default utility engine: it expands shorthand class
// tokens into canonical form and resolves canonical tokens into CSS rule text.
package resolver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yacobolo/livecss/internal/config"
)

var (
	ErrUnbalancedGroup = errors.New("unbalanced group")
	ErrShortcutCycle   = errors.New("shortcut cycle")
	ErrUnsafeValue     = errors.New("unsafe arbitrary value")
	ErrUnknownVariant  = errors.New("unknown variant")
	ErrInvalidShortcut = errors.New("invalid shortcut")
)

// darkQuery is the media condition used by the dark variant.
const darkQuery = "(prefers-color-scheme: dark)"

// pseudoVariants maps state variants to the selector suffix they add.
var pseudoVariants = map[string]string{
	"hover":         ":hover",
	"focus":         ":focus",
	"focus-visible": ":focus-visible",
	"focus-within":  ":focus-within",
	"active":        ":active",
	"visited":       ":visited",
	"disabled":      ":disabled",
	"checked":       ":checked",
	"required":      ":required",
	"invalid":       ":invalid",
	"first":         ":first-child",
	"last":          ":last-child",
	"odd":           ":nth-child(odd)",
	"even":          ":nth-child(even)",
	"empty":         ":empty",
	"placeholder":   "::placeholder",
	"before":        "::before",
	"after":         "::after",
	"selection":     "::selection",
}

// Resolver is safe for concurrent use. Breakpoint variants are looked up in
// the store on every call, so configuration changes apply to tokens resolved
// afterwards.
type Resolver struct {
	cfg       *config.Store
	shortcuts *Shortcuts
}

// New creates a resolver. A nil store uses the default configuration and a
// nil registry disables shortcuts.
func New(cfg *config.Store, shortcuts *Shortcuts) *Resolver {
	if cfg == nil {
		cfg = config.NewStore(config.Default())
	}
	return &Resolver{cfg: cfg, shortcuts: shortcuts}
}

// Shortcuts returns the registry used by Expand.
func (r *Resolver) Shortcuts() *Shortcuts { return r.shortcuts }

// Resolve returns the CSS rules for a canonical token. Unknown utilities
// resolve to no rules and no error.
func (r *Resolver) Resolve(token string) ([]string, error) {
	if token == "" {
		return nil, nil
	}
	parts := splitTop(token, '|')
	variants, utility := parts[:len(parts)-1], parts[len(parts)-1]

	cfg := r.cfg.Get()
	important := cfg.Important
	if strings.HasPrefix(utility, "!") {
		important = true
		utility = utility[1:]
	}

	u, ok, err := lookup(utility)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", token, err)
	}
	if !ok {
		return nil, nil
	}

	var media []string
	var pseudo strings.Builder
	for _, v := range variants {
		if q, ok := cfg.Query(v); ok {
			media = append(media, q)
			continue
		}
		if v == "dark" {
			media = append(media, darkQuery)
			continue
		}
		if s, ok := pseudoVariants[v]; ok {
			pseudo.WriteString(s)
			continue
		}
		return nil, fmt.Errorf("%q: %w %q", token, ErrUnknownVariant, v)
	}

	selector := "." + EscapeClass(token) + pseudo.String() + u.suffix
	rule := selector + " { " + u.declarations(important) + " }"
	for i := len(media) - 1; i >= 0; i-- {
		rule = "@media " + media[i] + " { " + rule + " }"
	}
	return []string{rule}, nil
}

// EscapeClass escapes a class name for use in a selector.
func EscapeClass(class string) string {
	var b strings.Builder
	for i, c := range class {
		switch {
		case c >= '0' && c <= '9':
			if i == 0 || (i == 1 && class[0] == '-') {
				fmt.Fprintf(&b, "\\3%c ", c)
			} else {
				b.WriteRune(c)
			}
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-', c == '_', c >= 0x80:
			b.WriteRune(c)
		default:
			b.WriteByte('\\')
			b.WriteRune(c)
		}
	}
	return b.String()
}
