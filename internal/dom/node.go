// Package dom is a small live document model: an element tree with ordered
// attributes, a ready state, and mutation observers whose records are queued
// and delivered in batches by Document.Flush.
//
// All tree operations lock the owning document, so a tree may be mutated from
// several goroutines. Observer callbacks run without the lock held and may
// mutate the tree; records produced there are delivered in a later round.
package dom

import (
	"fmt"
	"strings"
)

// NodeType identifies the kind of a Node.
type NodeType int

// Node kinds.
const (
	DocumentNode NodeType = iota + 1
	ElementNode
	TextNode
	CommentNode
	DoctypeNode
)

// Attr is a single attribute. Values are stored unescaped.
type Attr struct {
	Name  string
	Value string
}

// Node is a node in a Document tree.
type Node struct {
	Type NodeType
	Tag  string // lower-case tag name for elements
	Data string // text, comment or doctype source

	doc      *Document
	parent   *Node
	children []*Node
	attrs    []Attr
}

// Document returns the document that owns n.
func (n *Node) Document() *Document {
	return n.doc
}

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return append([]*Node(nil), n.children...)
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n.Type == ElementNode
}

// IsConnected reports whether n is attached to its document's tree.
func (n *Node) IsConnected() bool {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.connectedLocked()
}

func (n *Node) connectedLocked() bool {
	for p := n; p != nil; p = p.parent {
		if p == n.doc.root {
			return true
		}
	}
	return false
}

// GetAttribute returns the value of the named attribute.
func (n *Node) GetAttribute(name string) (string, bool) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return n.getAttrLocked(name)
}

func (n *Node) getAttrLocked(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// Attrs returns a copy of the attribute list in source order.
func (n *Node) Attrs() []Attr {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	return append([]Attr(nil), n.attrs...)
}

// SetAttribute sets an attribute, queuing an attribute record even when the
// value does not change.
func (n *Node) SetAttribute(name, value string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	n.setAttrLocked(name, value)
}

func (n *Node) setAttrLocked(name, value string) {
	old, had := n.getAttrLocked(name)
	if had {
		for i := range n.attrs {
			if n.attrs[i].Name == name {
				n.attrs[i].Value = value
				break
			}
		}
	} else {
		n.attrs = append(n.attrs, Attr{Name: name, Value: value})
	}
	rec := MutationRecord{Type: MutationAttributes, Target: n, AttributeName: name}
	if had {
		rec.OldValue = &old
	}
	n.doc.queueLocked(rec)
}

// RemoveAttribute removes an attribute if present.
func (n *Node) RemoveAttribute(name string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	for i, a := range n.attrs {
		if a.Name == name {
			old := a.Value
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			n.doc.queueLocked(MutationRecord{Type: MutationAttributes, Target: n, AttributeName: name, OldValue: &old})
			return
		}
	}
}

// Classes returns the whitespace-separated tokens of the class attribute.
func (n *Node) Classes() []string {
	v, _ := n.GetAttribute("class")
	return strings.Fields(v)
}

// HasClass reports whether the class list contains token.
func (n *Node) HasClass(token string) bool {
	for _, c := range n.Classes() {
		if c == token {
			return true
		}
	}
	return false
}

// AddClass appends token to the class list unless it is already present.
func (n *Node) AddClass(token string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	v, _ := n.getAttrLocked("class")
	fields := strings.Fields(v)
	for _, c := range fields {
		if c == token {
			return
		}
	}
	n.setAttrLocked("class", strings.Join(append(fields, token), " "))
}

// RemoveClass removes every occurrence of token from the class list.
func (n *Node) RemoveClass(token string) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	v, ok := n.getAttrLocked("class")
	if !ok {
		return
	}
	fields := strings.Fields(v)
	kept := fields[:0]
	for _, c := range fields {
		if c != token {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(fields) {
		return
	}
	n.setAttrLocked("class", strings.Join(kept, " "))
}

// AppendChild appends c to n, detaching it from its previous parent first.
// It panics if c is n or an ancestor of n.
func (n *Node) AppendChild(c *Node) {
	n.InsertBefore(c, nil)
}

// InsertBefore inserts c before ref, or at the end when ref is nil.
// It panics if c is n or an ancestor of n, or if ref is not a child of n.
func (n *Node) InsertBefore(c, ref *Node) {
	if c.doc != n.doc && c.parent != nil {
		c.parent.RemoveChild(c)
	}

	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()

	for p := n; p != nil; p = p.parent {
		if p == c {
			panic("dom: cannot insert a node into itself or its descendant")
		}
	}
	if c.parent != nil {
		c.parent.removeLocked(c)
	}

	idx := len(n.children)
	if ref != nil {
		idx = n.indexLocked(ref)
		if idx < 0 {
			panic("dom: reference node is not a child")
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = c
	c.parent = n
	c.adopt(n.doc)

	n.doc.queueLocked(MutationRecord{Type: MutationChildList, Target: n, AddedNodes: []*Node{c}})
}

// RemoveChild detaches c from n.
func (n *Node) RemoveChild(c *Node) {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	if c.parent != n {
		return
	}
	n.removeLocked(c)
}

func (n *Node) removeLocked(c *Node) {
	idx := n.indexLocked(c)
	if idx < 0 {
		return
	}
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	c.parent = nil
	n.doc.queueLocked(MutationRecord{Type: MutationChildList, Target: n, RemovedNodes: []*Node{c}})
}

// ReplaceChildren removes every child of n and appends nodes, producing a
// single child-list record.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	for _, c := range nodes {
		if c.doc != n.doc && c.parent != nil {
			c.parent.RemoveChild(c)
		}
	}

	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()

	removed := n.children
	for _, c := range removed {
		c.parent = nil
	}
	n.children = nil
	for _, c := range nodes {
		if c.parent != nil {
			c.parent.removeLocked(c)
		}
		c.parent = n
		c.adopt(n.doc)
		n.children = append(n.children, c)
	}
	n.doc.queueLocked(MutationRecord{
		Type:         MutationChildList,
		Target:       n,
		AddedNodes:   append([]*Node(nil), nodes...),
		RemovedNodes: removed,
	})
}

func (n *Node) indexLocked(c *Node) int {
	for i, ch := range n.children {
		if ch == c {
			return i
		}
	}
	return -1
}

func (n *Node) adopt(doc *Document) {
	if n.doc == doc {
		return
	}
	n.doc = doc
	for _, c := range n.children {
		c.adopt(doc)
	}
}

// Text returns the concatenated text of all descendant text nodes.
func (n *Node) Text() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	var b strings.Builder
	n.textLocked(&b)
	return b.String()
}

func (n *Node) textLocked(b *strings.Builder) {
	if n.Type == TextNode {
		b.WriteString(n.Data)
		return
	}
	for _, c := range n.children {
		c.textLocked(b)
	}
}

// SetText replaces the children of n with a single text node.
func (n *Node) SetText(text string) {
	t := n.doc.CreateText(text)
	n.ReplaceChildren(t)
}

// AppendText appends text to the trailing text node of n, creating it if
// needed. Extending an existing text node does not produce a record.
func (n *Node) AppendText(text string) {
	n.doc.mu.Lock()
	if k := len(n.children); k > 0 && n.children[k-1].Type == TextNode {
		n.children[k-1].Data += text
		n.doc.mu.Unlock()
		return
	}
	n.doc.mu.Unlock()
	n.AppendChild(n.doc.CreateText(text))
}

// Walk calls fn for n and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	for _, x := range n.snapshot() {
		fn(x)
	}
}

// Find returns the first node, in document order, for which match is true.
func (n *Node) Find(match func(*Node) bool) *Node {
	for _, x := range n.snapshot() {
		if match(x) {
			return x
		}
	}
	return nil
}

// QueryAttr returns the descendant elements of n (n excluded) that carry the
// named attribute, in document order.
func (n *Node) QueryAttr(name string) []*Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	var out []*Node
	var visit func(*Node)
	visit = func(x *Node) {
		for _, c := range x.children {
			if c.Type == ElementNode {
				if _, ok := c.getAttrLocked(name); ok {
					out = append(out, c)
				}
			}
			visit(c)
		}
	}
	visit(n)
	return out
}

func (n *Node) snapshot() []*Node {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()
	var out []*Node
	var visit func(*Node)
	visit = func(x *Node) {
		out = append(out, x)
		for _, c := range x.children {
			visit(c)
		}
	}
	visit(n)
	return out
}

// Path returns a short human readable location such as "body>div#main>p[2]".
func (n *Node) Path() string {
	n.doc.mu.Lock()
	defer n.doc.mu.Unlock()

	var parts []string
	for x := n; x != nil && x.Type == ElementNode; x = x.parent {
		parts = append(parts, x.labelLocked())
		if x.Tag == "body" || x.Tag == "head" {
			break
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ">")
}

func (n *Node) labelLocked() string {
	if id, ok := n.getAttrLocked("id"); ok && id != "" {
		return n.Tag + "#" + id
	}
	if n.parent == nil {
		return n.Tag
	}
	idx, same := 0, 0
	for _, s := range n.parent.children {
		if s.Type == ElementNode && s.Tag == n.Tag {
			same++
			if s == n {
				idx = same
			}
		}
	}
	if same <= 1 {
		return n.Tag
	}
	return fmt.Sprintf("%s[%d]", n.Tag, idx)
}
