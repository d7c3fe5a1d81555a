package livecss

import (
	"fmt"
	"io"
	"os"

	"github.com/yacobolo/livecss/internal/report"
)

// OutputFormat selects how build results are printed.
type OutputFormat string

const (
	// OutputIssues prints one line per issue and a count
	OutputIssues OutputFormat = "issues"
	// OutputSummary prints stylesheet statistics per page
	OutputSummary OutputFormat = "summary"
	// OutputFull prints issues and statistics
	OutputFull OutputFormat = "full"
	// OutputJSON exports the result as JSON
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat selects the output format from the flag value.
// Unknown values fall back to issues.
func DetermineOutputFormat(formatFlag string) OutputFormat {
	switch formatFlag {
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	case "json":
		return OutputJSON
	default:
		return OutputIssues
	}
}

// OutputOptions controls WriteOutput.
type OutputOptions struct {
	UseColors bool
	PrintOp   bool
}

// WriteOutput writes the build result in the given format.
func WriteOutput(w io.Writer, result *BuildResult, format OutputFormat, opts OutputOptions) {
	reporter := report.NewReporter(w, opts.UseColors, opts.PrintOp)

	switch format {
	case OutputIssues:
		reporter.PrintIssues(entries(result.Issues))
		reporter.PrintSummary(entries(result.Issues))

	case OutputSummary:
		printPageStats(reporter, result)
		printWarnings(w, result, opts.UseColors)

	case OutputFull:
		reporter.PrintIssues(entries(result.Issues))
		reporter.PrintSummary(entries(result.Issues))
		printPageStats(reporter, result)
		printWarnings(w, result, opts.UseColors)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}
	}
}

func entries(issues []Issue) []report.Entry {
	out := make([]report.Entry, len(issues))
	for i, issue := range issues {
		loc := issue.Subject
		if issue.Page != "" {
			loc = issue.Page + " " + loc
		}
		out[i] = report.Entry{
			Location: loc,
			Text:     issue.Text,
			Severity: issue.Severity,
			Op:       issue.Op,
		}
	}
	return out
}

func printPageStats(r *report.Reporter, result *BuildResult) {
	for _, p := range result.Pages {
		r.PrintStats(fmt.Sprintf("%s (%d tokens)", p.Page, p.Tokens), p.Stats)
	}
}

func printWarnings(w io.Writer, result *BuildResult, useColors bool) {
	if len(result.Warnings) == 0 {
		return
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, report.RenderStyle(report.StyleYellow, "Warnings", useColors))
	fmt.Fprintln(w, "-----------")
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "• %s\n", warning)
	}
}
