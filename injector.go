package livecss

import (
	"errors"
	"strings"

	"github.com/yacobolo/livecss/internal/dom"
	"github.com/yacobolo/livecss/internal/safe"
)

const (
	sheetAttr = "data-livecss"
	resetAttr = "data-livecss-reset"
)

var errNoHead = errors.New("document has no head element")

// keyframes seeds the runtime stylesheet; the animate-* utilities refer to
// these names.
const keyframes = `@keyframes spin {
  to { transform: rotate(360deg); }
}
@keyframes ping {
  75%, 100% { transform: scale(2); opacity: 0; }
}
@keyframes pulse {
  50% { opacity: 0.5; }
}
@keyframes bounce {
  0%, 100% { transform: translateY(-25%); animation-timing-function: cubic-bezier(0.8,0,1,1); }
  50% { transform: none; animation-timing-function: cubic-bezier(0,0,0.2,1); }
}
`

const resetRules = `*,*::before,*::after{box-sizing:border-box}
*{margin:0}
html,body{height:100%}
body{line-height:1.5;-webkit-font-smoothing:antialiased}
img,picture,video,canvas,svg{display:block;max-width:100%}
input,button,textarea,select{font:inherit}
p,h1,h2,h3,h4,h5,h6{overflow-wrap:break-word}
#root,#__next{isolation:isolate}
ul,ol{list-style:none;padding:0}
a{color:inherit;text-decoration:none}
button{background:none;border:none;cursor:pointer}
table{border-collapse:collapse;border-spacing:0}
fieldset{border:none;padding:0}
legend{padding:0}
textarea{resize:vertical}
details summary{cursor:pointer}
:focus-visible{outline:2px solid #2563eb;outline-offset:2px}
@media (prefers-color-scheme:dark){:root{color-scheme:dark}}`

// ensureGenerated generates CSS for token at most once per runtime. The token
// is marked before resolving, so a failing token is not retried.
// Caller holds r.mu.
func (r *Runtime) ensureGenerated(token string) {
	if _, seen := r.processed[token]; seen {
		return
	}
	r.processed[token] = struct{}{}
	r.order = append(r.order, token)

	safe.Run(r.report, "generate", token, func() error {
		rules, err := r.resolver.Resolve(token)
		if err != nil {
			return err
		}
		r.metrics.TokenGenerated()

		var b strings.Builder
		n := 0
		for _, rule := range rules {
			if rule == "" {
				continue
			}
			b.WriteString(rule)
			b.WriteByte('\n')
			n++
		}
		if n == 0 {
			return nil
		}
		return r.inject(b.String(), n)
	})
}

// inject appends css to the runtime stylesheet, creating it on first use.
func (r *Runtime) inject(css string, rules int) error {
	if r.sheet == nil {
		head := r.doc.Head()
		if head == nil {
			return errNoHead
		}
		sheet := r.doc.CreateElement("style")
		sheet.SetAttribute(sheetAttr, "true")
		sheet.SetText(keyframes)
		head.AppendChild(sheet)
		r.sheet = sheet
	}
	r.sheet.AppendText(css)
	r.metrics.RulesInjected(rules, len(r.sheet.Text()))
	return nil
}

// LoadClass generates CSS for a single canonical token without touching any
// element.
func (r *Runtime) LoadClass(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureGenerated(token)
}

// ResetCSS installs the reset stylesheet as the first child of head, or
// rewrites its content if it is already there.
func (r *Runtime) ResetCSS() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetCSS()
}

func (r *Runtime) resetCSS() {
	safe.Run(r.report, "resetCSS", "", func() error {
		head := r.doc.Head()
		if head == nil {
			return errNoHead
		}
		el := r.doc.Root().Find(func(n *dom.Node) bool {
			return n.IsElement() && n.HasAttribute(resetAttr)
		})
		if el == nil {
			el = r.doc.CreateElement("style")
			el.SetAttribute(resetAttr, "true")
			var first *dom.Node
			if children := head.Children(); len(children) > 0 {
				first = children[0]
			}
			head.InsertBefore(el, first)
		}
		if el.Text() != resetRules {
			el.SetText(resetRules)
		}
		return nil
	})
}

// Stylesheet returns the text of the runtime stylesheet, or "" before the
// first rule is injected.
func (r *Runtime) Stylesheet() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sheet == nil {
		return ""
	}
	return r.sheet.Text()
}

// Processed lists the tokens CSS was generated for, in first-seen order.
func (r *Runtime) Processed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.order...)
}
