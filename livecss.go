// Package livecss derives CSS from utility class tokens on a live document
// and keeps it in sync as the document changes.
//
// # Runtime
//
// A Runtime is bound to one document:
//
//	doc, _ := dom.ParseString(page)
//	rt := livecss.New(doc, livecss.WithLogger(logger))
//	rt.Init(livecss.InitOptions{Body: livecss.Bool(true)})
//	doc.MarkReady(dom.Complete)
//	doc.Flush()
//
// Init rewrites every class attribute to canonical tokens ("hover:bg-red"
// becomes "hover|bg-red"), appends one rule per new token to a
// <style data-livecss> element in head and watches body for inserted
// elements and class changes. With Body set it also keeps one breakpoint
// class ("mobile", "tablet", "desktop") on body.
//
// # Build
//
// Build runs the same runtime over a directory of HTML pages:
//
//	result, err := livecss.Build(livecss.BuildConfig{
//		Root:     "site",
//		Includes: []string{"**/*.html"},
//		OutDir:   "dist",
//	})
//
// # CLI Tool
//
//	go install github.com/yacobolo/livecss/cmd/livecss@latest
package livecss
