package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	src := `<!DOCTYPE html><html><head><title>x</title></head><body><div class="p-4 m-2"><img src="a.png"><br/>text &amp; more</div><!-- note --></body></html>`

	doc, err := ParseString(src)
	require.NoError(t, err)

	assert.Equal(t, `<!DOCTYPE html><html><head><title>x</title></head><body><div class="p-4 m-2"><img src="a.png"><br>text &amp; more</div><!-- note --></body></html>`, doc.String())
}

func TestParse_ImpliesStructure(t *testing.T) {
	doc, err := ParseString(`<meta charset="utf-8"><p class="a">hi</p>`)
	require.NoError(t, err)

	require.NotNil(t, doc.Head())
	require.NotNil(t, doc.Body())
	assert.Equal(t, `<html><head><meta charset="utf-8"></head><body><p class="a">hi</p></body></html>`, doc.String())
}

func TestParse_AttributeQuotingAndEscapes(t *testing.T) {
	doc, err := ParseString(`<body><a class='x y' title="say &quot;hi&quot;" href=/a>z</a></body>`)
	require.NoError(t, err)

	a := doc.Body().QueryAttr("class")[0]
	cls, _ := a.GetAttribute("class")
	title, _ := a.GetAttribute("title")
	href, _ := a.GetAttribute("href")

	assert.Equal(t, "x y", cls)
	assert.Equal(t, `say "hi"`, title)
	assert.Equal(t, "/a", href)
	assert.Equal(t, `<a class="x y" title="say &#34;hi&#34;" href="/a">z</a>`, a.OuterHTML())
}

func TestParse_RawTextElements(t *testing.T) {
	doc, err := ParseString(`<head><style>.a>.b{color:red}</style></head><body><script>if (a < b) {}</script></body>`)
	require.NoError(t, err)

	style := doc.Head().Children()[0]
	assert.Equal(t, "style", style.Tag)
	assert.Equal(t, ".a>.b{color:red}", style.Text())
	assert.Contains(t, doc.String(), "<script>if (a < b) {}</script>")
}

func TestParse_UnclosedTags(t *testing.T) {
	doc, err := ParseString(`<body><ul><li class="a">one<li class="b">two</ul><p class="c">x</body>`)
	require.NoError(t, err)

	assert.Len(t, doc.Body().QueryAttr("class"), 3)
}

func TestParse_InlineSVG(t *testing.T) {
	doc, err := ParseString(`<body><div class="p-4"></div><svg class="w-4 animate-spin" viewBox="0 0 24 24"><circle class="opacity-25" r="10"/><path d="M4 12"></path></svg><p class="after">x</p></body>`)
	require.NoError(t, err)

	els := doc.Body().QueryAttr("class")
	require.Len(t, els, 4)
	assert.Equal(t, "div", els[0].Tag)
	assert.Equal(t, "svg", els[1].Tag)
	assert.Equal(t, "circle", els[2].Tag)
	assert.Equal(t, "p", els[3].Tag)

	svg := els[1]
	viewBox, ok := svg.GetAttribute("viewBox")
	require.True(t, ok)
	assert.Equal(t, "0 0 24 24", viewBox)
	require.Len(t, svg.Children(), 2)
	assert.Equal(t, "path", svg.Children()[1].Tag)
	assert.Same(t, svg, els[2].Parent())

	assert.Equal(t, `<svg class="w-4 animate-spin" viewBox="0 0 24 24"><circle class="opacity-25" r="10"></circle><path d="M4 12"></path></svg>`, svg.OuterHTML())
}

func TestParse_InlineMath(t *testing.T) {
	doc, err := ParseString(`<body><math class="m-2"><mi class="italic">x</mi></math></body>`)
	require.NoError(t, err)

	els := doc.Body().QueryAttr("class")
	require.Len(t, els, 2)
	assert.Equal(t, "math", els[0].Tag)
	assert.Equal(t, "mi", els[1].Tag)
	assert.Equal(t, "x", els[1].Text())
}
