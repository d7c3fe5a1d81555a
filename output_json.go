package livecss

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Pages     []JSONPage  `json:"pages"`
	Issues    []Issue     `json:"issues"`
	Warnings  []string    `json:"warnings,omitempty"`
}

// JSONSummary contains high-level counts
type JSONSummary struct {
	TotalIssues     int   `json:"total_issues"`
	Errors          int   `json:"errors"`
	Warnings        int   `json:"warnings"`
	FilesDiscovered int   `json:"files_discovered"`
	FilesBuilt      int   `json:"files_built"`
	FilesSkipped    int   `json:"files_skipped"`
	Rules           int   `json:"rules"`
	DurationMillis  int64 `json:"duration_ms"`
}

// JSONPage describes one built page
type JSONPage struct {
	Page         string         `json:"page"`
	Tokens       int            `json:"tokens"`
	Breakpoint   string         `json:"breakpoint,omitempty"`
	Rules        int            `json:"rules"`
	Declarations int            `json:"declarations"`
	Bytes        int            `json:"bytes"`
	Categories   map[string]int `json:"categories"`
}

// WriteJSON writes the build result as JSON
func WriteJSON(w io.Writer, result *BuildResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildJSONOutput(result, time.Now()))
}

func buildJSONOutput(result *BuildResult, now time.Time) JSONOutput {
	var errors, warnings, rules int
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
	}

	pages := make([]JSONPage, len(result.Pages))
	for i, p := range result.Pages {
		cats := make(map[string]int, len(p.Stats.Categories))
		for c, n := range p.Stats.Categories {
			cats[string(c)] = n
		}
		pages[i] = JSONPage{
			Page:         p.Page,
			Tokens:       p.Tokens,
			Breakpoint:   p.Breakpoint,
			Rules:        p.Stats.Rules,
			Declarations: p.Stats.Declarations,
			Bytes:        p.Stats.Bytes,
			Categories:   cats,
		}
		rules += p.Stats.Rules
	}

	issues := result.Issues
	if issues == nil {
		issues = []Issue{}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: now.Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:     len(result.Issues),
			Errors:          errors,
			Warnings:        warnings,
			FilesDiscovered: result.Scan.FilesDiscovered,
			FilesBuilt:      len(result.Pages),
			FilesSkipped:    result.Scan.FilesSkipped,
			Rules:           rules,
			DurationMillis:  result.Duration.Milliseconds(),
		},
		Pages:    pages,
		Issues:   issues,
		Warnings: result.Warnings,
	}
}
