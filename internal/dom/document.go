package dom

import (
	"net/url"
	"strconv"
	"sync"
)

// ReadyState mirrors the loading phases of a page.
type ReadyState int

// Ready states.
const (
	Loading ReadyState = iota
	Interactive
	Complete
)

func (s ReadyState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Interactive:
		return "interactive"
	default:
		return "complete"
	}
}

// maxFlushRounds bounds Flush when callbacks keep producing records.
const maxFlushRounds = 64

// Document owns a node tree and its observers.
type Document struct {
	mu        sync.Mutex
	root      *Node
	url       string
	state     ReadyState
	onReady   []func()
	observers []*Observer
}

// NewDocument returns a loading document containing empty html, head and body
// elements.
func NewDocument() *Document {
	d := &Document{state: Loading}
	d.root = &Node{Type: DocumentNode, doc: d}
	html := d.CreateElement("html")
	html.AppendChild(d.CreateElement("head"))
	html.AppendChild(d.CreateElement("body"))
	d.root.AppendChild(html)
	return d
}

func newEmptyDocument() *Document {
	d := &Document{state: Loading}
	d.root = &Node{Type: DocumentNode, doc: d}
	return d
}

// CreateElement creates a detached element owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: tag, doc: d}
}

// CreateText creates a detached text node owned by d.
func (d *Document) CreateText(text string) *Node {
	return &Node{Type: TextNode, Data: text, doc: d}
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.root
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Node {
	return d.child(d.root, "html")
}

// Head returns the <head> element.
func (d *Document) Head() *Node {
	if html := d.DocumentElement(); html != nil {
		return d.child(html, "head")
	}
	return nil
}

// Body returns the <body> element.
func (d *Document) Body() *Node {
	if html := d.DocumentElement(); html != nil {
		return d.child(html, "body")
	}
	return nil
}

func (d *Document) child(n *Node, tag string) *Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range n.children {
		if c.Type == ElementNode && c.Tag == tag {
			return c
		}
	}
	return nil
}

// SetURL records the address the document was loaded from.
func (d *Document) SetURL(u string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = u
}

// URL returns the document address.
func (d *Document) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

// Port returns the numeric port of the document URL, or 0.
func (d *Document) Port() int {
	u, err := url.Parse(d.URL())
	if err != nil {
		return 0
	}
	p, err := strconv.Atoi(u.Port())
	if err != nil {
		return 0
	}
	return p
}

// ReadyState returns the current loading phase.
func (d *Document) ReadyState() ReadyState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// OnReady runs fn once the document has left the Loading state. If it already
// has, fn runs immediately.
func (d *Document) OnReady(fn func()) {
	d.mu.Lock()
	if d.state != Loading {
		d.mu.Unlock()
		fn()
		return
	}
	d.onReady = append(d.onReady, fn)
	d.mu.Unlock()
}

// MarkReady moves the document to state and runs pending ready callbacks when
// leaving Loading.
func (d *Document) MarkReady(state ReadyState) {
	d.mu.Lock()
	was := d.state
	d.state = state
	var fire []func()
	if was == Loading && state != Loading {
		fire, d.onReady = d.onReady, nil
	}
	d.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
}

// Flush delivers queued mutation records to their observers, one batch per
// observer per round, until no records remain. It returns the number of
// records delivered.
func (d *Document) Flush() int {
	delivered := 0
	for round := 0; round < maxFlushRounds; round++ {
		type batch struct {
			obs  *Observer
			recs []MutationRecord
		}
		d.mu.Lock()
		var batches []batch
		for _, o := range d.observers {
			if len(o.queue) > 0 {
				batches = append(batches, batch{obs: o, recs: o.queue})
				o.queue = nil
			}
		}
		d.mu.Unlock()

		if len(batches) == 0 {
			return delivered
		}
		for _, b := range batches {
			b.obs.callback(b.recs)
			delivered += len(b.recs)
		}
	}
	return delivered
}

// Pending returns the number of queued, undelivered records.
func (d *Document) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, o := range d.observers {
		n += len(o.queue)
	}
	return n
}
