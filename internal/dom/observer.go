package dom

// MutationType is the kind of change a record describes.
type MutationType int

// Mutation kinds.
const (
	MutationChildList MutationType = iota + 1
	MutationAttributes
)

func (t MutationType) String() string {
	if t == MutationAttributes {
		return "attributes"
	}
	return "childList"
}

// MutationRecord describes one change to the tree.
type MutationRecord struct {
	Type          MutationType
	Target        *Node
	AddedNodes    []*Node
	RemovedNodes  []*Node
	AttributeName string
	OldValue      *string // previous attribute value, nil when it was absent
}

// ObserveOptions selects which changes an observer receives.
type ObserveOptions struct {
	ChildList       bool
	Attributes      bool
	Subtree         bool
	AttributeFilter []string // empty means every attribute
}

// Observer receives batches of records for a target node.
type Observer struct {
	doc      *Document
	target   *Node
	opts     ObserveOptions
	callback func([]MutationRecord)
	queue    []MutationRecord
}

// Observe registers callback for changes under target. Records are queued and
// handed over by Flush.
func (d *Document) Observe(target *Node, opts ObserveOptions, callback func([]MutationRecord)) *Observer {
	o := &Observer{doc: d, target: target, opts: opts, callback: callback}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.observers = append(d.observers, o)
	return o
}

// Disconnect stops delivery and drops queued records.
func (o *Observer) Disconnect() {
	d := o.doc
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, x := range d.observers {
		if x == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			break
		}
	}
	o.queue = nil
}

// TakeRecords returns and clears the records queued for o.
func (o *Observer) TakeRecords() []MutationRecord {
	o.doc.mu.Lock()
	defer o.doc.mu.Unlock()
	recs := o.queue
	o.queue = nil
	return recs
}

func (d *Document) queueLocked(rec MutationRecord) {
	for _, o := range d.observers {
		if o.wants(rec) {
			o.queue = append(o.queue, rec)
		}
	}
}

func (o *Observer) wants(rec MutationRecord) bool {
	switch rec.Type {
	case MutationChildList:
		if !o.opts.ChildList {
			return false
		}
	case MutationAttributes:
		if !o.opts.Attributes {
			return false
		}
		if len(o.opts.AttributeFilter) > 0 && !contains(o.opts.AttributeFilter, rec.AttributeName) {
			return false
		}
	}

	if rec.Target == o.target {
		return true
	}
	if !o.opts.Subtree {
		return false
	}
	for p := rec.Target.parent; p != nil; p = p.parent {
		if p == o.target {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
