package livecss

import (
	"fmt"
	"strings"
	"time"

	"github.com/yacobolo/livecss/internal/dom"
	"github.com/yacobolo/livecss/internal/safe"
)

// originalAttr keeps the authored class string on rewritten elements in
// debug mode.
const originalAttr = "data-livecss-original"

// expandClassString splits a class attribute on whitespace, expands every
// token and joins the result with single spaces.
func (r *Runtime) expandClassString(raw string) ([]string, error) {
	var out []string
	for _, token := range strings.Fields(raw) {
		expanded, err := r.resolver.Expand(token)
		if err != nil {
			return nil, fmt.Errorf("expand %q: %w", token, err)
		}
		for _, t := range expanded {
			if t != "" {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

// processElement rewrites el's class attribute to canonical tokens and makes
// sure CSS exists for each of them. The attribute is only written when its
// value changes, so a second pass over the same element is a no-op.
// Caller holds r.mu.
func (r *Runtime) processElement(el *dom.Node) {
	start := time.Now()
	defer func() { r.metrics.ObserveElement(time.Since(start)) }()

	safe.Run(r.report, "processElement", el.Path(), func() error {
		raw, ok := el.GetAttribute("class")
		if !ok || strings.TrimSpace(raw) == "" {
			return nil
		}

		tokens, err := r.expandClassString(raw)
		if err != nil {
			return err
		}

		if normalized := strings.Join(tokens, " "); normalized != raw {
			el.SetAttribute("class", normalized)
			if r.debug {
				el.SetAttribute(originalAttr, raw)
			}
		}

		for _, t := range tokens {
			r.ensureGenerated(t)
		}
		return nil
	})
}

// processTree processes root, if it is an element, and then every descendant
// carrying a class attribute in document order. Caller holds r.mu.
func (r *Runtime) processTree(root *dom.Node) int {
	if root == nil || !root.IsElement() {
		return 0
	}
	r.processElement(root)
	elements := root.QueryAttr("class")
	for _, el := range elements {
		r.processElement(el)
	}
	return len(elements) + 1
}
