package viewport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ErrInvalidQuery is returned for media queries the evaluator cannot read.
var ErrInvalidQuery = errors.New("invalid media query")

// pxPerEm is the length of 1em/1rem at the user agent default font size.
const pxPerEm = 16

// Env is the state a media query is evaluated against.
type Env struct {
	Width       int
	Height      int
	ColorScheme string // "light" or "dark"
}

// Query is a parsed media query list. It matches when any alternative matches.
type Query struct {
	source string
	alts   []mediaQuery
}

type mediaQuery struct {
	negate    bool
	mediaType string
	features  []feature
}

type feature struct {
	name  string
	ident string
	px    float64
	bare  bool // (color) style feature without a value
}

// String returns the query text as given to ParseQuery.
func (q Query) String() string {
	return q.source
}

// ParseQuery parses a media query list such as
// "screen and (min-width: 769px) and (max-width: 1024px), print".
func ParseQuery(source string) (Query, error) {
	toks := lexQuery(source)
	if len(toks) == 0 {
		return Query{}, fmt.Errorf("%w: empty", ErrInvalidQuery)
	}

	q := Query{source: source}
	for _, part := range splitTokens(toks, css.CommaToken) {
		mq, err := parseMediaQuery(part)
		if err != nil {
			return Query{}, fmt.Errorf("%w: %q: %v", ErrInvalidQuery, source, err)
		}
		q.alts = append(q.alts, mq)
	}
	return q, nil
}

// Match reports whether any alternative of the query matches env.
func (q Query) Match(env Env) bool {
	for _, mq := range q.alts {
		if mq.match(env) {
			return true
		}
	}
	return false
}

type token struct {
	tt   css.TokenType
	text string
}

func lexQuery(source string) []token {
	lexer := css.NewLexer(parse.NewInputString(source))
	var toks []token
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			return toks
		}
		if tt == css.WhitespaceToken || tt == css.CommentToken {
			continue
		}
		toks = append(toks, token{tt: tt, text: string(text)})
	}
}

func splitTokens(toks []token, sep css.TokenType) [][]token {
	var parts [][]token
	start := 0
	for i, t := range toks {
		if t.tt == sep {
			parts = append(parts, toks[start:i])
			start = i + 1
		}
	}
	return append(parts, toks[start:])
}

func parseMediaQuery(toks []token) (mediaQuery, error) {
	mq := mediaQuery{mediaType: "all"}
	if len(toks) == 0 {
		return mq, errors.New("empty alternative")
	}

	i := 0
	if toks[i].tt == css.IdentToken {
		switch strings.ToLower(toks[i].text) {
		case "not":
			mq.negate = true
			i++
		case "only":
			i++
		}
	}
	if i < len(toks) && toks[i].tt == css.IdentToken {
		mq.mediaType = strings.ToLower(toks[i].text)
		i++
		if i < len(toks) {
			if !isAnd(toks[i]) {
				return mq, fmt.Errorf("expected 'and' after media type, got %q", toks[i].text)
			}
			i++
			if i == len(toks) {
				return mq, errors.New("dangling 'and'")
			}
		}
	}

	for i < len(toks) {
		if toks[i].tt != css.LeftParenthesisToken {
			return mq, fmt.Errorf("expected '(' got %q", toks[i].text)
		}
		end := i + 1
		for end < len(toks) && toks[end].tt != css.RightParenthesisToken {
			end++
		}
		if end == len(toks) {
			return mq, errors.New("unclosed '('")
		}
		f, err := parseFeature(toks[i+1 : end])
		if err != nil {
			return mq, err
		}
		mq.features = append(mq.features, f)
		i = end + 1
		if i < len(toks) {
			if !isAnd(toks[i]) {
				return mq, fmt.Errorf("expected 'and' got %q", toks[i].text)
			}
			i++
			if i == len(toks) {
				return mq, errors.New("dangling 'and'")
			}
		}
	}
	return mq, nil
}

func isAnd(t token) bool {
	return t.tt == css.IdentToken && strings.EqualFold(t.text, "and")
}

func parseFeature(toks []token) (feature, error) {
	if len(toks) == 0 || toks[0].tt != css.IdentToken {
		return feature{}, errors.New("missing feature name")
	}
	f := feature{name: strings.ToLower(toks[0].text)}
	if len(toks) == 1 {
		f.bare = true
		return f, nil
	}
	if len(toks) != 3 || toks[1].tt != css.ColonToken {
		return feature{}, fmt.Errorf("malformed feature %q", f.name)
	}

	v := toks[2]
	switch v.tt {
	case css.IdentToken:
		f.ident = strings.ToLower(v.text)
	case css.DimensionToken, css.NumberToken:
		px, err := parseLength(v.text)
		if err != nil {
			return feature{}, err
		}
		f.px = px
	default:
		return feature{}, fmt.Errorf("unsupported value %q for %s", v.text, f.name)
	}
	return f, nil
}

func parseLength(text string) (float64, error) {
	i := 0
	for i < len(text) && (text[i] == '.' || text[i] == '-' || text[i] == '+' || (text[i] >= '0' && text[i] <= '9')) {
		i++
	}
	n, err := strconv.ParseFloat(text[:i], 64)
	if err != nil {
		return 0, fmt.Errorf("bad length %q", text)
	}
	switch strings.ToLower(text[i:]) {
	case "", "px":
		return n, nil
	case "em", "rem":
		return n * pxPerEm, nil
	default:
		return 0, fmt.Errorf("unsupported unit in %q", text)
	}
}

func (mq mediaQuery) match(env Env) bool {
	ok := mq.mediaType == "all" || mq.mediaType == "screen"
	if ok {
		for _, f := range mq.features {
			if !f.match(env) {
				ok = false
				break
			}
		}
	}
	if mq.negate {
		return !ok
	}
	return ok
}

func (f feature) match(env Env) bool {
	w, h := float64(env.Width), float64(env.Height)
	switch f.name {
	case "width":
		return f.bare || w == f.px
	case "min-width":
		return w >= f.px
	case "max-width":
		return w <= f.px
	case "height":
		return f.bare || h == f.px
	case "min-height":
		return h >= f.px
	case "max-height":
		return h <= f.px
	case "orientation":
		if h >= w {
			return f.ident == "portrait"
		}
		return f.ident == "landscape"
	case "prefers-color-scheme":
		scheme := env.ColorScheme
		if scheme == "" {
			scheme = "light"
		}
		return f.bare || f.ident == scheme
	default:
		return false
	}
}
