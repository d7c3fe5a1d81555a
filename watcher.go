package livecss

import (
	"github.com/yacobolo/livecss/internal/dom"
)

// watch installs the body observer. It is a no-op once installed.
// Caller holds r.mu.
func (r *Runtime) watch() {
	if r.observer != nil {
		return
	}
	body := r.doc.Body()
	if body == nil {
		r.logger.Warn("document has no body, not watching for changes")
		return
	}
	r.observer = r.doc.Observe(body, dom.ObserveOptions{
		ChildList:       true,
		Subtree:         true,
		Attributes:      true,
		AttributeFilter: []string{"class"},
	}, r.handleMutations)
}

// handleMutations is the observer callback. Inserted subtrees are processed
// whole; a changed class attribute reprocesses just its element.
func (r *Runtime) handleMutations(records []dom.MutationRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	for _, rec := range records {
		for _, n := range rec.AddedNodes {
			r.processTree(n)
		}
		if rec.Type == dom.MutationAttributes && rec.AttributeName == "class" {
			r.processElement(rec.Target)
		}
	}
}
