package dom

import (
	"bufio"
	"fmt"
	stdhtml "html"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"github.com/tdewolff/parse/v2/xml"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// headElements may appear before <body> without an explicit <head>.
var headElements = map[string]bool{
	"base": true, "link": true, "meta": true, "script": true,
	"style": true, "title": true, "noscript": true,
}

// Parse reads an HTML page into a Document in the Loading state. Missing
// html, head and body elements are implied. Text and comments are kept as
// written so Render reproduces them unchanged.
func Parse(r io.Reader) (*Document, error) {
	doc := newEmptyDocument()
	l := html.NewLexer(parse.NewInput(r))

	stack := []*Node{doc.root}
	var pending *Node // element whose start tag is being read

	top := func() *Node { return stack[len(stack)-1] }

	for {
		tt, data := l.Next()
		switch tt {
		case html.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, fmt.Errorf("parse html: %w", err)
			}
			normalize(doc)
			return doc, nil

		case html.StartTagToken:
			pending = doc.CreateElement(strings.ToLower(string(l.Text())))
			top().AppendChild(pending)

		case html.AttributeToken:
			if pending != nil {
				pending.attrs = append(pending.attrs, Attr{
					Name:  strings.ToLower(string(l.AttrKey())),
					Value: unquote(l.AttrVal()),
				})
			}

		case html.StartTagCloseToken:
			if pending != nil && !voidElements[pending.Tag] {
				stack = append(stack, pending)
			}
			pending = nil

		case html.StartTagVoidToken:
			pending = nil

		case html.EndTagToken:
			name := strings.ToLower(string(l.Text()))
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == name {
					stack = stack[:i]
					break
				}
			}

		case html.SVGToken, html.MathToken:
			if err := parseForeign(doc, top(), data); err != nil {
				return nil, err
			}

		case html.TextToken, html.XMLToken:
			top().AppendChild(doc.CreateText(string(data)))

		case html.CommentToken:
			top().AppendChild(&Node{Type: CommentNode, Data: string(data), doc: doc})

		case html.DoctypeToken:
			top().AppendChild(&Node{Type: DoctypeNode, Data: string(data), doc: doc})
		}
	}
}

// parseForeign builds the nodes of an inline svg or math subtree under
// parent. The html lexer returns such a subtree as one token, so it is lexed
// again as XML. Tag and attribute names keep their case (viewBox).
func parseForeign(doc *Document, parent *Node, data []byte) error {
	l := xml.NewLexer(parse.NewInputBytes(append([]byte(nil), data...)))

	stack := []*Node{parent}
	var pending *Node

	top := func() *Node { return stack[len(stack)-1] }

	for {
		tt, raw := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != nil && err != io.EOF {
				return fmt.Errorf("parse inline %s: %w", firstTag(data), err)
			}
			return nil

		case xml.StartTagToken:
			pending = doc.CreateElement(string(l.Text()))
			top().AppendChild(pending)

		case xml.AttributeToken:
			if pending != nil {
				pending.attrs = append(pending.attrs, Attr{
					Name:  string(l.Text()),
					Value: unquote(l.AttrVal()),
				})
			}

		case xml.StartTagCloseToken:
			if pending != nil {
				stack = append(stack, pending)
			}
			pending = nil

		case xml.StartTagCloseVoidToken, xml.StartTagPIToken, xml.StartTagClosePIToken:
			pending = nil

		case xml.EndTagToken:
			name := string(l.Text())
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].Tag == name {
					stack = stack[:i]
					break
				}
			}

		case xml.TextToken, xml.CDATAToken:
			top().AppendChild(doc.CreateText(string(raw)))

		case xml.CommentToken:
			top().AppendChild(&Node{Type: CommentNode, Data: string(raw), doc: doc})
		}
	}
}

func firstTag(data []byte) string {
	if i := strings.IndexAny(string(data), " \t\n\r/>"); i > 1 {
		return strings.ToLower(string(data[1:i]))
	}
	return "element"
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func unquote(v []byte) string {
	s := string(v)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		s = s[1 : len(s)-1]
	}
	return stdhtml.UnescapeString(s)
}

// normalize makes sure the document has html, head and body elements.
func normalize(doc *Document) {
	root := doc.root

	htmlEl := doc.child(root, "html")
	if htmlEl == nil {
		htmlEl = doc.CreateElement("html")
		var moved []*Node
		for _, c := range root.children {
			if c.Type != DoctypeNode {
				moved = append(moved, c)
			}
		}
		for _, c := range moved {
			htmlEl.AppendChild(c)
		}
		root.AppendChild(htmlEl)
	}

	head := doc.child(htmlEl, "head")
	body := doc.child(htmlEl, "body")

	if head == nil {
		head = doc.CreateElement("head")
		var first *Node
		if len(htmlEl.children) > 0 {
			first = htmlEl.children[0]
		}
		htmlEl.InsertBefore(head, first)
		if body == nil {
			for _, c := range htmlEl.Children() {
				if c == head || (c.Type == TextNode && strings.TrimSpace(c.Data) == "") {
					continue
				}
				if c.Type == ElementNode && headElements[c.Tag] {
					head.AppendChild(c)
					continue
				}
				break
			}
		}
	}

	if body == nil {
		body = doc.CreateElement("body")
		for _, c := range htmlEl.Children() {
			if c != head {
				body.AppendChild(c)
			}
		}
		htmlEl.AppendChild(body)
	}
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	d.mu.Lock()
	for _, c := range d.root.children {
		renderNode(bw, c)
	}
	d.mu.Unlock()
	return bw.Flush()
}

// String renders the document, for tests and debugging.
func (d *Document) String() string {
	var b strings.Builder
	_ = d.Render(&b)
	return b.String()
}

// OuterHTML renders n and its subtree.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	bw := bufio.NewWriter(&b)
	n.doc.mu.Lock()
	renderNode(bw, n)
	n.doc.mu.Unlock()
	_ = bw.Flush()
	return b.String()
}

func renderNode(w *bufio.Writer, n *Node) {
	switch n.Type {
	case TextNode, CommentNode, DoctypeNode:
		w.WriteString(n.Data)
	case DocumentNode:
		for _, c := range n.children {
			renderNode(w, c)
		}
	case ElementNode:
		w.WriteByte('<')
		w.WriteString(n.Tag)
		for _, a := range n.attrs {
			w.WriteByte(' ')
			w.WriteString(a.Name)
			if a.Value != "" {
				w.WriteString(`="`)
				w.WriteString(stdhtml.EscapeString(a.Value))
				w.WriteByte('"')
			}
		}
		w.WriteByte('>')
		if voidElements[n.Tag] {
			return
		}
		for _, c := range n.children {
			renderNode(w, c)
		}
		w.WriteString("</")
		w.WriteString(n.Tag)
		w.WriteByte('>')
	}
}
