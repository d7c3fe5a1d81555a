package resolver

import (
	"fmt"
	"strings"
)

// maxShortcutDepth bounds shortcut nesting; deeper chains are reported as cycles.
const maxShortcutDepth = 8

// Expand turns a raw class token into canonical tokens:
//
//	hover:bg-red          -> hover|bg-red
//	m:hover:p-4           -> m|hover|p-4
//	hover:(bg-red,p-2)    -> hover|bg-red hover|p-2
//	btn (shortcut)        -> the shortcut's tokens, expanded
//
// Canonical tokens (containing '|') are returned unchanged, so expanding an
// already expanded class string is a no-op.
func (r *Resolver) Expand(token string) ([]string, error) {
	return r.expand(token, nil, 0)
}

func (r *Resolver) expand(token string, outer []string, depth int) ([]string, error) {
	if depth > maxShortcutDepth {
		return nil, fmt.Errorf("%q: %w", token, ErrShortcutCycle)
	}
	if token == "" {
		return nil, nil
	}
	if !balanced(token) {
		return nil, fmt.Errorf("%q: %w", token, ErrUnbalancedGroup)
	}
	if strings.Contains(token, "|") {
		return []string{join(outer, token)}, nil
	}

	parts := splitTop(token, ':')
	variants := append(append([]string(nil), outer...), parts[:len(parts)-1]...)
	for _, v := range parts[:len(parts)-1] {
		if v == "" {
			return nil, fmt.Errorf("%q: empty variant", token)
		}
	}
	last := parts[len(parts)-1]

	if strings.HasPrefix(last, "(") {
		if !strings.HasSuffix(last, ")") {
			return nil, fmt.Errorf("%q: %w", token, ErrUnbalancedGroup)
		}
		var out []string
		for _, member := range splitTop(last[1:len(last)-1], ',') {
			expanded, err := r.expand(member, variants, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, expanded...)
		}
		return out, nil
	}

	if r.shortcuts != nil {
		if spec, ok := r.shortcuts.Lookup(last); ok {
			var out []string
			for _, member := range spec {
				expanded, err := r.expand(member, variants, depth+1)
				if err != nil {
					return nil, err
				}
				out = append(out, expanded...)
			}
			return out, nil
		}
	}

	return []string{join(variants, last)}, nil
}

func join(variants []string, utility string) string {
	if len(variants) == 0 {
		return utility
	}
	return strings.Join(variants, "|") + "|" + utility
}

// splitTop splits s on sep, ignoring separators nested in () or [].
func splitTop(s string, sep byte) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func balanced(s string) bool {
	var stack []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			stack = append(stack, s[i])
		case ')', ']':
			if len(stack) == 0 {
				return false
			}
			open := stack[len(stack)-1]
			if (open == '(') != (s[i] == ')') {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}
