package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Severity values understood by the reporter.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Entry is one reported problem.
type Entry struct {
	Location string // "index.html body>main>p[2]" or a token
	Text     string
	Severity string
	Op       string
}

// Reporter prints build results in a compact, grep-friendly form.
type Reporter struct {
	w         io.Writer
	useColors bool
	printOp   bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, useColors, printOp bool) *Reporter {
	return &Reporter{w: w, useColors: useColors, printOp: printOp}
}

// ShouldUseColors reports whether output to stdout should be colored.
func ShouldUseColors(force bool) bool {
	if force {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}
	return false
}

// UseColors returns whether colors are enabled.
func (r *Reporter) UseColors() bool {
	return r.useColors
}

// PrintIssues prints one line per entry, sorted by location.
func (r *Reporter) PrintIssues(entries []Entry) {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Location < sorted[j].Location
	})

	for _, e := range sorted {
		style := StyleRed
		if e.Severity == SeverityWarning {
			style = StyleYellow
		}
		suffix := ""
		if r.printOp && e.Op != "" {
			suffix = fmt.Sprintf(" (%s)", e.Op)
		}
		fmt.Fprintf(r.w, "%s %s %s%s\n",
			RenderStyle(StyleCyan, e.Location+":", r.useColors),
			RenderStyle(style, e.Severity, r.useColors),
			e.Text,
			RenderStyle(StyleGray, suffix, r.useColors))
	}
}

// PrintSummary prints the issue count line.
func (r *Reporter) PrintSummary(entries []Entry) {
	var errors, warnings int
	for _, e := range entries {
		switch e.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}

	if len(entries) == 0 {
		fmt.Fprintln(r.w, RenderStyle(StyleGreen, "0 issues.", r.useColors))
		return
	}
	fmt.Fprintln(r.w, "")
	if errors > 0 && warnings > 0 {
		fmt.Fprintf(r.w, "%s (%s, %s)\n",
			pluralizeCount(len(entries), "issue", "issues"),
			pluralizeCount(errors, "error", "errors"),
			pluralizeCount(warnings, "warning", "warnings"))
		return
	}
	fmt.Fprintf(r.w, "%s\n", pluralizeCount(len(entries), "issue", "issues"))
}

// PrintStats prints stylesheet statistics under title.
func (r *Reporter) PrintStats(title string, s Stats) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, title, r.useColors))
	fmt.Fprintln(r.w, strings.Repeat("-", len(title)))

	fmt.Fprintf(r.w, "Rules:         %d\n", s.Rules)
	fmt.Fprintf(r.w, "Media blocks:  %d\n", s.MediaRules)
	fmt.Fprintf(r.w, "Keyframes:     %d\n", s.Keyframes)
	fmt.Fprintf(r.w, "Declarations:  %d\n", s.Declarations)
	fmt.Fprintf(r.w, "Bytes:         %d\n", s.Bytes)

	if s.Declarations == 0 {
		return
	}
	fmt.Fprintln(r.w, "")
	for _, cat := range Categories {
		n := s.Categories[cat]
		if n == 0 {
			continue
		}
		fmt.Fprintf(r.w, "%-12s ", cat)
		printProgressBar(r.w, float64(n)*100/float64(s.Declarations))
	}
}

func printProgressBar(w io.Writer, percentage float64) {
	barWidth := 20
	filled := int(percentage / 100 * float64(barWidth))

	fmt.Fprint(w, "[")
	for i := 0; i < barWidth; i++ {
		if i < filled {
			fmt.Fprint(w, "█")
		} else {
			fmt.Fprint(w, "░")
		}
	}
	fmt.Fprintf(w, "] %.1f%%\n", percentage)
}

func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
