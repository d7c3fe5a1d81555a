package resolver

import (
	"strconv"
	"strings"
)

type decl struct {
	prop  string
	value string
}

// utility is a resolved utility: its declarations and an optional selector
// suffix (" > * + *" for the space utilities).
type utility struct {
	decls  []decl
	suffix string
}

func (u utility) declarations(important bool) string {
	var b strings.Builder
	for i, d := range u.decls {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(d.prop)
		b.WriteString(": ")
		b.WriteString(d.value)
		if important {
			b.WriteString(" !important")
		}
		b.WriteByte(';')
	}
	return b.String()
}

func one(prop, value string) utility {
	return utility{decls: []decl{{prop, value}}}
}

func each(value string, props ...string) utility {
	u := utility{decls: make([]decl, len(props))}
	for i, p := range props {
		u.decls[i] = decl{p, value}
	}
	return u
}

// lookup resolves a utility name without variants. ok is false for names
// the engine does not know.
func lookup(name string) (utility, bool, error) {
	if strings.ContainsAny(name, "{};<>\"'\\") {
		return utility{}, false, ErrUnsafeValue
	}

	if inner, ok := arbitrary(name); ok {
		prop, value, found := strings.Cut(inner, ":")
		if !found || prop == "" || value == "" || !isIdent(prop) {
			return utility{}, false, nil
		}
		return one(prop, value), true, nil
	}

	if u, ok := static[name]; ok {
		return u, true, nil
	}

	neg := strings.HasPrefix(name, "-")
	if neg {
		name = name[1:]
	}
	for _, p := range prefixed {
		var value string
		switch {
		case name == p.prefix:
		case strings.HasPrefix(name, p.prefix+"-"):
			value = name[len(p.prefix)+1:]
		default:
			continue
		}
		if neg && !p.negatable {
			return utility{}, false, nil
		}
		u, ok := p.fn(value)
		if !ok {
			continue
		}
		if neg {
			for i := range u.decls {
				u.decls[i].value = negate(u.decls[i].value)
			}
		}
		return u, true, nil
	}
	return utility{}, false, nil
}

type prefixRule struct {
	prefix    string
	negatable bool
	fn        func(value string) (utility, bool)
}

// prefixed is matched in order; longer prefixes come before the shorter
// prefixes they start with.
var prefixed = []prefixRule{
	{"space-x", true, spaceBetween("margin-left")},
	{"space-y", true, spaceBetween("margin-top")},
	{"min-w", false, sizing("w", "min-width")},
	{"min-h", false, sizing("h", "min-height")},
	{"max-w", false, maxWidth},
	{"max-h", false, sizing("h", "max-height")},
	{"gap-x", false, spacingOf("column-gap")},
	{"gap-y", false, spacingOf("row-gap")},
	{"gap", false, spacingOf("gap")},
	{"px", false, spacingOf("padding-left", "padding-right")},
	{"py", false, spacingOf("padding-top", "padding-bottom")},
	{"pt", false, spacingOf("padding-top")},
	{"pr", false, spacingOf("padding-right")},
	{"pb", false, spacingOf("padding-bottom")},
	{"pl", false, spacingOf("padding-left")},
	{"p", false, spacingOf("padding")},
	{"mx", true, marginOf("margin-left", "margin-right")},
	{"my", true, marginOf("margin-top", "margin-bottom")},
	{"mt", true, marginOf("margin-top")},
	{"mr", true, marginOf("margin-right")},
	{"mb", true, marginOf("margin-bottom")},
	{"ml", true, marginOf("margin-left")},
	{"m", true, marginOf("margin")},
	{"w", false, sizing("w", "width")},
	{"h", false, sizing("h", "height")},
	{"inset-x", true, placement("left", "right")},
	{"inset-y", true, placement("top", "bottom")},
	{"inset", true, placement("inset")},
	{"top", true, placement("top")},
	{"right", true, placement("right")},
	{"bottom", true, placement("bottom")},
	{"left", true, placement("left")},
	{"z", true, zIndex},
	{"order", true, integer("order")},
	{"opacity", false, opacity},
	{"grid-cols", false, gridTemplate("grid-template-columns")},
	{"grid-rows", false, gridTemplate("grid-template-rows")},
	{"col-span", false, span("grid-column")},
	{"row-span", false, span("grid-row")},
	{"basis", false, sizing("w", "flex-basis")},
	{"text", false, text},
	{"font", false, font},
	{"bg", false, colorOf("background-color")},
	{"border", false, border},
	{"rounded", false, rounded},
	{"shadow", false, shadow},
	{"leading", false, leading},
	{"tracking", true, tracking},
	{"duration", false, milliseconds("transition-duration")},
	{"delay", false, milliseconds("transition-delay")},
	{"animate", false, animate},
	{"fill", false, colorOf("fill")},
	{"stroke", false, colorOf("stroke")},
	{"decoration", false, colorOf("text-decoration-color")},
	{"accent", false, colorOf("accent-color")},
	{"caret", false, colorOf("caret-color")},
}

var static = map[string]utility{
	"block":        one("display", "block"),
	"inline":       one("display", "inline"),
	"inline-block": one("display", "inline-block"),
	"flex":         one("display", "flex"),
	"inline-flex":  one("display", "inline-flex"),
	"grid":         one("display", "grid"),
	"inline-grid":  one("display", "inline-grid"),
	"contents":     one("display", "contents"),
	"table":        one("display", "table"),
	"flow-root":    one("display", "flow-root"),
	"hidden":       one("display", "none"),

	"static":   one("position", "static"),
	"fixed":    one("position", "fixed"),
	"absolute": one("position", "absolute"),
	"relative": one("position", "relative"),
	"sticky":   one("position", "sticky"),

	"visible":   one("visibility", "visible"),
	"invisible": one("visibility", "hidden"),

	"flex-row":          one("flex-direction", "row"),
	"flex-row-reverse":  one("flex-direction", "row-reverse"),
	"flex-col":          one("flex-direction", "column"),
	"flex-col-reverse":  one("flex-direction", "column-reverse"),
	"flex-wrap":         one("flex-wrap", "wrap"),
	"flex-wrap-reverse": one("flex-wrap", "wrap-reverse"),
	"flex-nowrap":       one("flex-wrap", "nowrap"),
	"flex-1":            one("flex", "1 1 0%"),
	"flex-auto":         one("flex", "1 1 auto"),
	"flex-initial":      one("flex", "0 1 auto"),
	"flex-none":         one("flex", "none"),
	"grow":              one("flex-grow", "1"),
	"grow-0":            one("flex-grow", "0"),
	"shrink":            one("flex-shrink", "1"),
	"shrink-0":          one("flex-shrink", "0"),

	"items-start":    one("align-items", "flex-start"),
	"items-end":      one("align-items", "flex-end"),
	"items-center":   one("align-items", "center"),
	"items-baseline": one("align-items", "baseline"),
	"items-stretch":  one("align-items", "stretch"),

	"justify-start":   one("justify-content", "flex-start"),
	"justify-end":     one("justify-content", "flex-end"),
	"justify-center":  one("justify-content", "center"),
	"justify-between": one("justify-content", "space-between"),
	"justify-around":  one("justify-content", "space-around"),
	"justify-evenly":  one("justify-content", "space-evenly"),

	"self-auto":    one("align-self", "auto"),
	"self-start":   one("align-self", "flex-start"),
	"self-end":     one("align-self", "flex-end"),
	"self-center":  one("align-self", "center"),
	"self-stretch": one("align-self", "stretch"),

	"content-start":   one("align-content", "flex-start"),
	"content-end":     one("align-content", "flex-end"),
	"content-center":  one("align-content", "center"),
	"content-between": one("align-content", "space-between"),

	"place-items-center":   one("place-items", "center"),
	"place-content-center": one("place-content", "center"),

	"italic":       one("font-style", "italic"),
	"not-italic":   one("font-style", "normal"),
	"underline":    one("text-decoration-line", "underline"),
	"overline":     one("text-decoration-line", "overline"),
	"line-through": one("text-decoration-line", "line-through"),
	"no-underline": one("text-decoration-line", "none"),
	"uppercase":    one("text-transform", "uppercase"),
	"lowercase":    one("text-transform", "lowercase"),
	"capitalize":   one("text-transform", "capitalize"),
	"normal-case":  one("text-transform", "none"),
	"truncate": {decls: []decl{
		{"overflow", "hidden"},
		{"text-overflow", "ellipsis"},
		{"white-space", "nowrap"},
	}},
	"break-words": one("overflow-wrap", "break-word"),
	"break-all":   one("word-break", "break-all"),

	"whitespace-normal":   one("white-space", "normal"),
	"whitespace-nowrap":   one("white-space", "nowrap"),
	"whitespace-pre":      one("white-space", "pre"),
	"whitespace-pre-line": one("white-space", "pre-line"),
	"whitespace-pre-wrap": one("white-space", "pre-wrap"),

	"select-none": one("user-select", "none"),
	"select-text": one("user-select", "text"),
	"select-all":  one("user-select", "all"),
	"select-auto": one("user-select", "auto"),

	"pointer-events-none": one("pointer-events", "none"),
	"pointer-events-auto": one("pointer-events", "auto"),

	"object-contain":    one("object-fit", "contain"),
	"object-cover":      one("object-fit", "cover"),
	"object-fill":       one("object-fit", "fill"),
	"object-none":       one("object-fit", "none"),
	"object-scale-down": one("object-fit", "scale-down"),

	"box-border":  one("box-sizing", "border-box"),
	"box-content": one("box-sizing", "content-box"),

	"list-none":    one("list-style-type", "none"),
	"list-disc":    one("list-style-type", "disc"),
	"list-decimal": one("list-style-type", "decimal"),

	"resize-none": one("resize", "none"),
	"resize-x":    one("resize", "horizontal"),
	"resize-y":    one("resize", "vertical"),
	"resize":      one("resize", "both"),

	"aspect-auto":   one("aspect-ratio", "auto"),
	"aspect-square": one("aspect-ratio", "1 / 1"),
	"aspect-video":  one("aspect-ratio", "16 / 9"),

	"outline-none": {decls: []decl{
		{"outline", "2px solid transparent"},
		{"outline-offset", "2px"},
	}},

	"sr-only": {decls: []decl{
		{"position", "absolute"},
		{"width", "1px"},
		{"height", "1px"},
		{"padding", "0"},
		{"margin", "-1px"},
		{"overflow", "hidden"},
		{"clip", "rect(0, 0, 0, 0)"},
		{"white-space", "nowrap"},
		{"border-width", "0"},
	}},

	"transition": {decls: []decl{
		{"transition-property", "color, background-color, border-color, text-decoration-color, fill, stroke, opacity, box-shadow, transform"},
		{"transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"},
		{"transition-duration", "150ms"},
	}},
	"transition-none":      one("transition-property", "none"),
	"transition-all":       one("transition-property", "all"),
	"transition-colors":    one("transition-property", "color, background-color, border-color, text-decoration-color, fill, stroke"),
	"transition-opacity":   one("transition-property", "opacity"),
	"transition-transform": one("transition-property", "transform"),

	"ease-linear": one("transition-timing-function", "linear"),
	"ease-in":     one("transition-timing-function", "cubic-bezier(0.4, 0, 1, 1)"),
	"ease-out":    one("transition-timing-function", "cubic-bezier(0, 0, 0.2, 1)"),
	"ease-in-out": one("transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"),
}

func init() {
	for _, v := range []string{"auto", "hidden", "clip", "visible", "scroll"} {
		static["overflow-"+v] = one("overflow", v)
		static["overflow-x-"+v] = one("overflow-x", v)
		static["overflow-y-"+v] = one("overflow-y", v)
	}
	for _, v := range []string{"auto", "default", "pointer", "wait", "text", "move", "help", "not-allowed", "none", "grab", "grabbing"} {
		static["cursor-"+v] = one("cursor", v)
	}
}

// arbitrary unwraps "[value]", turning underscores into spaces.
func arbitrary(v string) (string, bool) {
	if len(v) < 3 || v[0] != '[' || v[len(v)-1] != ']' {
		return "", false
	}
	return strings.ReplaceAll(v[1:len(v)-1], "_", " "), true
}

func isIdent(s string) bool {
	for _, c := range s {
		if !(c >= 'a' && c <= 'z' || c == '-') {
			return false
		}
	}
	return true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func negate(v string) string {
	switch {
	case v == "auto" || v == "0px" || v == "0":
		return v
	case strings.HasPrefix(v, "-"):
		return v[1:]
	case strings.ContainsAny(v, " ("):
		return "calc(" + v + " * -1)"
	}
	return "-" + v
}

// spacing maps the numeric scale to rem (1 unit = 0.25rem).
func spacing(v string) (string, bool) {
	if inner, ok := arbitrary(v); ok {
		return inner, true
	}
	if v == "px" {
		return "1px", true
	}
	if v == "" || strings.ContainsAny(v, "eE+-") {
		return "", false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return "", false
	}
	if f == 0 {
		return "0px", true
	}
	return formatFloat(f*0.25) + "rem", true
}

func spacingOf(props ...string) func(string) (utility, bool) {
	return func(v string) (utility, bool) {
		s, ok := spacing(v)
		if !ok {
			return utility{}, false
		}
		return each(s, props...), true
	}
}

func marginOf(props ...string) func(string) (utility, bool) {
	return func(v string) (utility, bool) {
		if v == "auto" {
			return each("auto", props...), true
		}
		return spacingOf(props...)(v)
	}
}

func spaceBetween(prop string) func(string) (utility, bool) {
	return func(v string) (utility, bool) {
		s, ok := spacing(v)
		if !ok {
			return utility{}, false
		}
		return utility{decls: []decl{{prop, s}}, suffix: " > * + *"}, true
	}
}

// fractionValue resolves "1/2" to "50%".
func fractionValue(v string) (string, bool) {
	num, den, found := strings.Cut(v, "/")
	if !found {
		return "", false
	}
	n, err1 := strconv.Atoi(num)
	d, err2 := strconv.Atoi(den)
	if err1 != nil || err2 != nil || d == 0 || n < 0 {
		return "", false
	}
	return strconv.FormatFloat(float64(n)*100/float64(d), 'f', 6, 64), true
}

func percent(v string) (string, bool) {
	s, ok := fractionValue(v)
	if !ok {
		return "", false
	}
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + "%", true
}

// sizing handles width and height style values. axis is "w" or "h" and
// decides what "screen" means.
func sizing(axis string, props ...string) func(string) (utility, bool) {
	screen := "100vw"
	if axis == "h" {
		screen = "100vh"
	}
	return func(v string) (utility, bool) {
		var s string
		switch v {
		case "":
			return utility{}, false
		case "auto":
			s = "auto"
		case "full":
			s = "100%"
		case "screen":
			s = screen
		case "min":
			s = "min-content"
		case "max":
			s = "max-content"
		case "fit":
			s = "fit-content"
		case "none":
			s = "none"
		default:
			var ok bool
			if s, ok = percent(v); !ok {
				if s, ok = spacing(v); !ok {
					return utility{}, false
				}
			}
		}
		return each(s, props...), true
	}
}

var maxWidths = map[string]string{
	"xs": "20rem", "sm": "24rem", "md": "28rem", "lg": "32rem", "xl": "36rem",
	"2xl": "42rem", "3xl": "48rem", "4xl": "56rem", "5xl": "64rem", "6xl": "72rem",
	"7xl": "80rem", "prose": "65ch",
}

func maxWidth(v string) (utility, bool) {
	if s, ok := maxWidths[v]; ok {
		return one("max-width", s), true
	}
	return sizing("w", "max-width")(v)
}

func placement(props ...string) func(string) (utility, bool) {
	return func(v string) (utility, bool) {
		switch v {
		case "auto":
			return each("auto", props...), true
		case "full":
			return each("100%", props...), true
		}
		if s, ok := percent(v); ok {
			return each(s, props...), true
		}
		return spacingOf(props...)(v)
	}
}

func integer(prop string) func(string) (utility, bool) {
	return func(v string) (utility, bool) {
		if inner, ok := arbitrary(v); ok {
			return one(prop, inner), true
		}
		if _, err := strconv.Atoi(v); err != nil || strings.HasPrefix(v, "-") {
			return utility{}, false
		}
		return one(prop, v), true
	}
}

func zIndex(v string) (utility, bool) {
	if v == "auto" {
		return one("z-index", "auto"), true
	}
	return integer("z-index")(v)
}

func opacity(v string) (utility, bool) {
	if inner, ok := arbitrary(v); ok {
		return one("opacity", inner), true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > 100 {
		return utility{}, false
	}
	return one("opacity", fraction(n)), true
}

func gridTemplate(prop string) func(string) (utility, bool) {
	return func(v string) (utility, bool) {
		if inner, ok := arbitrary(v); ok {
			return one(prop, inner), true
		}
		if v == "none" {
			return one(prop, "none"), true
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return utility{}, false
		}
		return one(prop, "repeat("+v+", minmax(0, 1fr))"), true
	}
}

func span(prop string) func(string) (utility, bool) {
	return func(v string) (utility, bool) {
		if v == "full" {
			return one(prop, "1 / -1"), true
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return utility{}, false
		}
		return one(prop, "span "+v+" / span "+v), true
	}
}

var textSizes = map[string][2]string{
	"xs":   {"0.75rem", "1rem"},
	"sm":   {"0.875rem", "1.25rem"},
	"base": {"1rem", "1.5rem"},
	"lg":   {"1.125rem", "1.75rem"},
	"xl":   {"1.25rem", "1.75rem"},
	"2xl":  {"1.5rem", "2rem"},
	"3xl":  {"1.875rem", "2.25rem"},
	"4xl":  {"2.25rem", "2.5rem"},
	"5xl":  {"3rem", "1"},
	"6xl":  {"3.75rem", "1"},
}

var textAligns = map[string]bool{
	"left": true, "center": true, "right": true, "justify": true, "start": true, "end": true,
}

func text(v string) (utility, bool) {
	if sz, ok := textSizes[v]; ok {
		return utility{decls: []decl{{"font-size", sz[0]}, {"line-height", sz[1]}}}, true
	}
	if textAligns[v] {
		return one("text-align", v), true
	}
	if inner, ok := arbitrary(v); ok && startsNumeric(inner) {
		return one("font-size", inner), true
	}
	if c, ok := color(v); ok {
		return one("color", c), true
	}
	return utility{}, false
}

var fontWeights = map[string]string{
	"thin": "100", "extralight": "200", "light": "300", "normal": "400", "medium": "500",
	"semibold": "600", "bold": "700", "extrabold": "800", "black": "900",
}

var fontFamilies = map[string]string{
	"sans":  "ui-sans-serif, system-ui, sans-serif",
	"serif": "ui-serif, Georgia, Cambria, serif",
	"mono":  "ui-monospace, SFMono-Regular, Menlo, monospace",
}

func font(v string) (utility, bool) {
	if w, ok := fontWeights[v]; ok {
		return one("font-weight", w), true
	}
	if f, ok := fontFamilies[v]; ok {
		return one("font-family", f), true
	}
	return utility{}, false
}

func colorOf(prop string) func(string) (utility, bool) {
	return func(v string) (utility, bool) {
		c, ok := color(v)
		if !ok {
			return utility{}, false
		}
		return one(prop, c), true
	}
}

var borderSides = map[string][]string{
	"t": {"border-top-width"},
	"r": {"border-right-width"},
	"b": {"border-bottom-width"},
	"l": {"border-left-width"},
	"x": {"border-left-width", "border-right-width"},
	"y": {"border-top-width", "border-bottom-width"},
}

var borderStyles = map[string]bool{
	"solid": true, "dashed": true, "dotted": true, "double": true, "none": true,
}

func border(v string) (utility, bool) {
	props := []string{"border-width"}
	if side, rest, _ := strings.Cut(v, "-"); borderSides[side] != nil {
		props, v = borderSides[side], rest
	}
	if v == "" {
		return each("1px", props...), true
	}
	if len(props) == 1 && props[0] == "border-width" {
		if borderStyles[v] {
			return one("border-style", v), true
		}
		if inner, ok := arbitrary(v); ok && !startsNumeric(inner) {
			return one("border-color", inner), true
		}
		if c, ok := color(v); ok && !strings.HasPrefix(v, "[") {
			return one("border-color", c), true
		}
	}
	if inner, ok := arbitrary(v); ok {
		return each(inner, props...), true
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 {
		return each(v+"px", props...), true
	}
	return utility{}, false
}

var radii = map[string]string{
	"": "0.25rem", "none": "0px", "sm": "0.125rem", "md": "0.375rem", "lg": "0.5rem",
	"xl": "0.75rem", "2xl": "1rem", "3xl": "1.5rem", "full": "9999px",
}

func rounded(v string) (utility, bool) {
	if r, ok := radii[v]; ok {
		return one("border-radius", r), true
	}
	if inner, ok := arbitrary(v); ok {
		return one("border-radius", inner), true
	}
	return utility{}, false
}

var shadows = map[string]string{
	"":      "0 1px 3px 0 rgb(0 0 0 / 0.1), 0 1px 2px -1px rgb(0 0 0 / 0.1)",
	"sm":    "0 1px 2px 0 rgb(0 0 0 / 0.05)",
	"md":    "0 4px 6px -1px rgb(0 0 0 / 0.1), 0 2px 4px -2px rgb(0 0 0 / 0.1)",
	"lg":    "0 10px 15px -3px rgb(0 0 0 / 0.1), 0 4px 6px -4px rgb(0 0 0 / 0.1)",
	"xl":    "0 20px 25px -5px rgb(0 0 0 / 0.1), 0 8px 10px -6px rgb(0 0 0 / 0.1)",
	"inner": "inset 0 2px 4px 0 rgb(0 0 0 / 0.05)",
	"none":  "0 0 #0000",
}

func shadow(v string) (utility, bool) {
	if s, ok := shadows[v]; ok {
		return one("box-shadow", s), true
	}
	return utility{}, false
}

var leadings = map[string]string{
	"none": "1", "tight": "1.25", "snug": "1.375", "normal": "1.5", "relaxed": "1.625", "loose": "2",
}

func leading(v string) (utility, bool) {
	if l, ok := leadings[v]; ok {
		return one("line-height", l), true
	}
	if s, ok := spacing(v); ok {
		return one("line-height", s), true
	}
	return utility{}, false
}

var trackings = map[string]string{
	"tighter": "-0.05em", "tight": "-0.025em", "normal": "0em",
	"wide": "0.025em", "wider": "0.05em", "widest": "0.1em",
}

func tracking(v string) (utility, bool) {
	if t, ok := trackings[v]; ok {
		return one("letter-spacing", t), true
	}
	if inner, ok := arbitrary(v); ok {
		return one("letter-spacing", inner), true
	}
	return utility{}, false
}

func milliseconds(prop string) func(string) (utility, bool) {
	return func(v string) (utility, bool) {
		if inner, ok := arbitrary(v); ok {
			return one(prop, inner), true
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return utility{}, false
		}
		return one(prop, v+"ms"), true
	}
}

// animations reference the keyframes seeded into the runtime stylesheet.
var animations = map[string]string{
	"none":   "none",
	"spin":   "spin 1s linear infinite",
	"ping":   "ping 1s cubic-bezier(0, 0, 0.2, 1) infinite",
	"pulse":  "pulse 2s cubic-bezier(0.4, 0, 0.6, 1) infinite",
	"bounce": "bounce 1s infinite",
}

func animate(v string) (utility, bool) {
	if a, ok := animations[v]; ok {
		return one("animation", a), true
	}
	return utility{}, false
}

func startsNumeric(s string) bool {
	return s != "" && (s[0] >= '0' && s[0] <= '9' || s[0] == '.')
}
