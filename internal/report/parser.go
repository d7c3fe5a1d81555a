// Package report analyses generated stylesheets and prints build results.
package report

import (
	"bytes"
	"sort"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Stats describes a generated stylesheet.
type Stats struct {
	Bytes        int              `json:"bytes"`
	Rules        int              `json:"rules"`        // style rules, keyframe steps excluded
	MediaRules   int              `json:"media_rules"`  // @media blocks
	Keyframes    int              `json:"keyframes"`    // @keyframes blocks
	Declarations int              `json:"declarations"` // declarations inside style rules
	Important    int              `json:"important"`    // declarations marked !important
	Categories   map[Category]int `json:"categories"`   // declarations per category
	Properties   map[string]int   `json:"properties"`   // declarations per property
}

// TopProperties returns the n most used properties, most used first.
func (s Stats) TopProperties(n int) []string {
	props := make([]string, 0, len(s.Properties))
	for p := range s.Properties {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool {
		if s.Properties[props[i]] != s.Properties[props[j]] {
			return s.Properties[props[i]] > s.Properties[props[j]]
		}
		return props[i] < props[j]
	})
	if len(props) > n {
		props = props[:n]
	}
	return props
}

type blockKind int

const (
	blockRule blockKind = iota
	blockMedia
	blockKeyframes
	blockFrame
	blockOther
)

// Analyze tokenises css and counts its rules and declarations.
func Analyze(content string) Stats {
	stats := Stats{
		Bytes:      len(content),
		Categories: make(map[Category]int),
		Properties: make(map[string]int),
	}

	lexer := css.NewLexer(parse.NewInputString(content))

	var stack []blockKind
	var atKeyword string // at-rule of the current prelude, if any
	statementStart := true
	var property string // property awaiting its colon

	inDeclarations := func() bool {
		if len(stack) == 0 {
			return false
		}
		k := stack[len(stack)-1]
		return k == blockRule || k == blockFrame
	}

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			break
		}

		switch tt {
		case css.WhitespaceToken, css.CommentToken:
			continue

		case css.AtKeywordToken:
			if statementStart && !inDeclarations() {
				atKeyword = string(bytes.ToLower(text))
			}

		case css.LeftBraceToken:
			kind := blockRule
			switch {
			case atKeyword == "@media" || atKeyword == "@supports":
				kind = blockMedia
				stats.MediaRules++
			case atKeyword == "@keyframes":
				kind = blockKeyframes
				stats.Keyframes++
			case atKeyword != "":
				kind = blockOther
			case len(stack) > 0 && stack[len(stack)-1] == blockKeyframes:
				kind = blockFrame
			default:
				stats.Rules++
			}
			stack = append(stack, kind)
			atKeyword, property = "", ""
			statementStart = true
			continue

		case css.RightBraceToken:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			atKeyword, property = "", ""
			statementStart = true
			continue

		case css.SemicolonToken:
			property = ""
			statementStart = true
			continue

		case css.IdentToken:
			if statementStart && inDeclarations() {
				property = string(bytes.ToLower(text))
			}

		case css.ColonToken:
			if property != "" && len(stack) > 0 && stack[len(stack)-1] == blockRule {
				stats.Declarations++
				stats.Properties[property]++
				stats.Categories[Categorize(property)]++
			}
			property = ""

		case css.DelimToken:
			if bytes.Equal(text, []byte("!")) && inDeclarations() {
				if tt2, t2 := nextSignificant(lexer); tt2 == css.IdentToken && bytes.EqualFold(t2, []byte("important")) {
					stats.Important++
				}
			}
		}
		statementStart = false
	}
	return stats
}

func nextSignificant(l *css.Lexer) (css.TokenType, []byte) {
	for {
		tt, text := l.Next()
		if tt != css.WhitespaceToken && tt != css.CommentToken {
			return tt, text
		}
	}
}
