package report

import "strings"

// Category groups related CSS properties.
type Category string

const (
	Visual      Category = "Visual"
	Layout      Category = "Layout"
	Typography  Category = "Typography"
	Effects     Category = "Effects"
	Interaction Category = "Interaction"
	Internal    Category = "Internal"
)

// Categories lists every category in display order.
var Categories = []Category{Layout, Typography, Visual, Effects, Interaction, Internal}

var propertyCategories = map[string]Category{
	// Visual
	"background":          Visual,
	"background-color":    Visual,
	"background-image":    Visual,
	"background-size":     Visual,
	"background-position": Visual,
	"background-repeat":   Visual,
	"color":               Visual,
	"border":              Visual,
	"border-color":        Visual,
	"border-radius":       Visual,
	"border-width":        Visual,
	"border-style":        Visual,
	"border-top":          Visual,
	"border-right":        Visual,
	"border-bottom":       Visual,
	"border-left":         Visual,
	"border-inline":       Visual,
	"border-block":        Visual,
	"box-shadow":          Visual,
	"opacity":             Visual,
	"outline":             Visual,
	"outline-color":       Visual,
	"outline-width":       Visual,
	"outline-style":       Visual,
	"fill":                Visual,
	"stroke":              Visual,

	// Layout
	"display":               Layout,
	"flex":                  Layout,
	"flex-direction":        Layout,
	"flex-wrap":             Layout,
	"flex-grow":             Layout,
	"flex-shrink":           Layout,
	"flex-basis":            Layout,
	"justify-content":       Layout,
	"align-items":           Layout,
	"align-self":            Layout,
	"align-content":         Layout,
	"gap":                   Layout,
	"row-gap":               Layout,
	"column-gap":            Layout,
	"grid":                  Layout,
	"grid-template-columns": Layout,
	"grid-template-rows":    Layout,
	"grid-template-areas":   Layout,
	"grid-column":           Layout,
	"grid-row":              Layout,
	"position":              Layout,
	"inset":                 Layout,
	"inset-block":           Layout,
	"inset-block-start":     Layout,
	"inset-block-end":       Layout,
	"inset-inline":          Layout,
	"inset-inline-start":    Layout,
	"inset-inline-end":      Layout,
	"top":                   Layout,
	"right":                 Layout,
	"bottom":                Layout,
	"left":                  Layout,
	"width":                 Layout,
	"height":                Layout,
	"inline-size":           Layout,
	"block-size":            Layout,
	"min-width":             Layout,
	"min-height":            Layout,
	"min-inline-size":       Layout,
	"min-block-size":        Layout,
	"max-width":             Layout,
	"max-height":            Layout,
	"max-inline-size":       Layout,
	"max-block-size":        Layout,
	"padding":               Layout,
	"padding-top":           Layout,
	"padding-right":         Layout,
	"padding-bottom":        Layout,
	"padding-left":          Layout,
	"padding-inline":        Layout,
	"padding-inline-start":  Layout,
	"padding-inline-end":    Layout,
	"padding-block":         Layout,
	"padding-block-start":   Layout,
	"padding-block-end":     Layout,
	"margin":                Layout,
	"margin-top":            Layout,
	"margin-right":          Layout,
	"margin-bottom":         Layout,
	"margin-left":           Layout,
	"margin-inline":         Layout,
	"margin-inline-start":   Layout,
	"margin-inline-end":     Layout,
	"margin-block":          Layout,
	"margin-block-start":    Layout,
	"margin-block-end":      Layout,
	"overflow":              Layout,
	"overflow-x":            Layout,
	"overflow-y":            Layout,
	"z-index":               Layout,
	"aspect-ratio":          Layout,
	"object-fit":            Layout,
	"object-position":       Layout,

	// Typography
	"font-family":          Typography,
	"font-size":            Typography,
	"font-weight":          Typography,
	"font-style":           Typography,
	"font-variant":         Typography,
	"font-variant-numeric": Typography,
	"line-height":          Typography,
	"letter-spacing":       Typography,
	"text-align":           Typography,
	"text-decoration":      Typography,
	"text-transform":       Typography,
	"text-overflow":        Typography,
	"white-space":          Typography,
	"word-break":           Typography,
	"word-wrap":            Typography,
	"hyphens":              Typography,

	// Effects
	"transition":                 Effects,
	"transition-property":        Effects,
	"transition-duration":        Effects,
	"transition-timing-function": Effects,
	"transition-delay":           Effects,
	"transform":                  Effects,
	"transform-origin":           Effects,
	"animation":                  Effects,
	"animation-name":             Effects,
	"animation-duration":         Effects,
	"animation-timing-function":  Effects,
	"animation-delay":            Effects,
	"animation-iteration-count":  Effects,
	"animation-direction":        Effects,
	"filter":                     Effects,
	"backdrop-filter":            Effects,
	"mix-blend-mode":             Effects,
	"clip-path":                  Effects,
	"mask":                       Effects,
}

// interaction properties change how an element responds to the user.
var interaction = map[string]bool{
	"cursor":         true,
	"pointer-events": true,
	"user-select":    true,
	"resize":         true,
	"visibility":     true,
	"accent-color":   true,
	"caret-color":    true,
}

// Categorize returns the category of a CSS property.
func Categorize(name string) Category {
	name = strings.ToLower(name)
	if cat, ok := propertyCategories[name]; ok {
		return cat
	}
	if interaction[name] {
		return Interaction
	}

	switch {
	case strings.HasPrefix(name, "-webkit-"),
		strings.HasPrefix(name, "-moz-"),
		strings.HasPrefix(name, "-ms-"),
		strings.HasPrefix(name, "-o-"):
		return Internal
	case strings.HasPrefix(name, "flex-"), strings.HasPrefix(name, "grid-"):
		return Layout
	case strings.HasPrefix(name, "border-"), strings.HasPrefix(name, "outline-"):
		return Visual
	case strings.HasPrefix(name, "padding-"), strings.HasPrefix(name, "margin-"):
		return Layout
	case strings.HasPrefix(name, "text-"), strings.HasPrefix(name, "font-"):
		return Typography
	case strings.HasPrefix(name, "transition-"), strings.HasPrefix(name, "animation-"):
		return Effects
	}
	return Layout
}
