package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(doc *Document, target *Node, opts ObserveOptions) *[]MutationRecord {
	var got []MutationRecord
	doc.Observe(target, opts, func(recs []MutationRecord) {
		got = append(got, recs...)
	})
	return &got
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	require.NotNil(t, doc.Head())
	require.NotNil(t, doc.Body())
	assert.Equal(t, Loading, doc.ReadyState())
	assert.Equal(t, "<html><head></head><body></body></html>", doc.String())
}

func TestAttributes(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	doc.Body().AppendChild(div)

	div.SetAttribute("class", "a b")
	div.SetAttribute("id", "x")
	v, ok := div.GetAttribute("class")

	assert.True(t, ok)
	assert.Equal(t, "a b", v)
	assert.Equal(t, []Attr{{"class", "a b"}, {"id", "x"}}, div.Attrs())

	div.RemoveAttribute("id")
	assert.False(t, div.HasAttribute("id"))
}

func TestClassList(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()

	body.AddClass("mobile")
	body.AddClass("mobile")
	assert.Equal(t, []string{"mobile"}, body.Classes())

	body.AddClass("dark")
	body.RemoveClass("mobile")
	assert.Equal(t, []string{"dark"}, body.Classes())
	assert.True(t, body.HasClass("dark"))
}

func TestObserver_SubtreeAndFilter(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	got := collect(doc, body, ObserveOptions{
		ChildList:       true,
		Attributes:      true,
		Subtree:         true,
		AttributeFilter: []string{"class"},
	})

	section := doc.CreateElement("section")
	body.AppendChild(section)
	p := doc.CreateElement("p")
	section.AppendChild(p)
	p.SetAttribute("class", "x")
	p.SetAttribute("title", "ignored")
	doc.Head().AppendChild(doc.CreateElement("meta"))

	assert.Equal(t, 3, doc.Pending())
	assert.Equal(t, 3, doc.Flush())

	require.Len(t, *got, 3)
	assert.Equal(t, MutationChildList, (*got)[0].Type)
	assert.Equal(t, []*Node{section}, (*got)[0].AddedNodes)
	assert.Equal(t, section, (*got)[1].Target)
	assert.Equal(t, MutationAttributes, (*got)[2].Type)
	assert.Equal(t, "class", (*got)[2].AttributeName)
	assert.Nil(t, (*got)[2].OldValue)
}

func TestObserver_RecordsOldValue(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	body.SetAttribute("class", "a")
	got := collect(doc, body, ObserveOptions{Attributes: true})

	body.SetAttribute("class", "b")
	doc.Flush()

	require.Len(t, *got, 1)
	require.NotNil(t, (*got)[0].OldValue)
	assert.Equal(t, "a", *(*got)[0].OldValue)
}

func TestObserver_Disconnect(t *testing.T) {
	doc := NewDocument()
	var calls int
	obs := doc.Observe(doc.Body(), ObserveOptions{ChildList: true}, func([]MutationRecord) { calls++ })

	doc.Body().AppendChild(doc.CreateElement("div"))
	obs.Disconnect()
	doc.Flush()

	assert.Equal(t, 0, calls)
}

func TestFlush_DeliversRecordsFromCallbacksInLaterRound(t *testing.T) {
	doc := NewDocument()
	body := doc.Body()
	var batches [][]MutationRecord
	doc.Observe(body, ObserveOptions{ChildList: true, Attributes: true, Subtree: true}, func(recs []MutationRecord) {
		batches = append(batches, recs)
		for _, r := range recs {
			for _, n := range r.AddedNodes {
				n.SetAttribute("data-seen", "1")
			}
		}
	})

	body.AppendChild(doc.CreateElement("div"))
	doc.Flush()

	require.Len(t, batches, 2)
	assert.Equal(t, MutationChildList, batches[0][0].Type)
	assert.Equal(t, MutationAttributes, batches[1][0].Type)
}

func TestInsertBeforeAndReplaceChildren(t *testing.T) {
	doc := NewDocument()
	head := doc.Head()
	a := doc.CreateElement("meta")
	b := doc.CreateElement("style")
	head.AppendChild(a)
	head.InsertBefore(b, a)

	assert.Equal(t, []*Node{b, a}, head.Children())

	c := doc.CreateElement("title")
	head.ReplaceChildren(c)
	assert.Equal(t, []*Node{c}, head.Children())
	assert.Nil(t, a.Parent())
	assert.False(t, a.IsConnected())
	assert.True(t, c.IsConnected())
}

func TestInsertIntoDescendantPanics(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div")
	inner := doc.CreateElement("div")
	outer.AppendChild(inner)

	assert.Panics(t, func() { inner.AppendChild(outer) })
}

func TestText(t *testing.T) {
	doc := NewDocument()
	style := doc.CreateElement("style")
	doc.Head().AppendChild(style)

	style.SetText("a{}\n")
	style.AppendText("b{}\n")
	style.AppendText("c{}\n")

	assert.Equal(t, "a{}\nb{}\nc{}\n", style.Text())
	assert.Len(t, style.Children(), 1)
}

func TestQueryAttrDocumentOrder(t *testing.T) {
	doc, err := ParseString(`<body><div class="a"><span class="b"></span></div><p class="c"></p><i></i></body>`)
	require.NoError(t, err)

	var classes []string
	for _, n := range doc.Body().QueryAttr("class") {
		v, _ := n.GetAttribute("class")
		classes = append(classes, v)
	}
	assert.Equal(t, []string{"a", "b", "c"}, classes)
}

func TestReadyState(t *testing.T) {
	doc := NewDocument()
	var order []string

	doc.OnReady(func() { order = append(order, "first") })
	doc.OnReady(func() { order = append(order, "second") })
	assert.Empty(t, order)

	doc.MarkReady(Interactive)
	assert.Equal(t, []string{"first", "second"}, order)

	doc.MarkReady(Complete)
	doc.OnReady(func() { order = append(order, "late") })
	assert.Equal(t, []string{"first", "second", "late"}, order)
}

func TestPort(t *testing.T) {
	doc := NewDocument()
	assert.Equal(t, 0, doc.Port())

	doc.SetURL("http://localhost:5173/index.html")
	assert.Equal(t, 5173, doc.Port())
}

func TestPath(t *testing.T) {
	doc, err := ParseString(`<body><main id="app"><p>a</p><p class="x">b</p></main></body>`)
	require.NoError(t, err)

	p := doc.Body().QueryAttr("class")[0]
	assert.Equal(t, "body>main#app>p[2]", p.Path())
}
