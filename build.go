package livecss

import (
	"fmt"
	"time"

	"github.com/yacobolo/livecss/internal/report"
)

// PageResult summarises one built page.
type PageResult struct {
	Page       string       `json:"page"`
	Tokens     int          `json:"tokens"`
	Breakpoint string       `json:"breakpoint,omitempty"`
	Stats      report.Stats `json:"stats"`
	Issues     []Issue      `json:"issues"`
}

// BuildResult contains build statistics
type BuildResult struct {
	Pages    []PageResult  `json:"pages"`
	Scan     ScanStats     `json:"scan"`
	Issues   []Issue       `json:"issues"`
	Duration time.Duration `json:"duration"`
	Warnings []string      `json:"warnings,omitempty"`
}

// Build is the main entry point: it runs the live runtime over every page
// matched by cfg and writes the rewritten pages and their stylesheets.
// A page that cannot be read or written is reported as a warning and the
// build continues.
func Build(cfg BuildConfig) (*BuildResult, error) {
	start := time.Now()

	site, err := NewSite(cfg)
	if err != nil {
		return nil, err
	}
	defer site.Close()

	pages, stats, err := site.Discover()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	result := &BuildResult{Scan: stats}

	for _, name := range pages {
		page, err := site.Load(name)
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Failed to load %s: %v", name, err))
			continue
		}
		if err := site.Write(page); err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Failed to write %s: %v", name, err))
			continue
		}
		pr := Summarize(page)
		result.Pages = append(result.Pages, pr)
		result.Issues = append(result.Issues, pr.Issues...)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Summarize collects the result of a loaded page.
func Summarize(p *Page) PageResult {
	issues := p.Runtime.Issues()
	for i := range issues {
		issues[i].Page = p.Name
	}
	return PageResult{
		Page:       p.Name,
		Tokens:     len(p.Runtime.Processed()),
		Breakpoint: p.Runtime.Breakpoint(),
		Stats:      report.Analyze(p.Runtime.Stylesheet()),
		Issues:     issues,
	}
}
