package livecss

import (
	"errors"

	"github.com/yacobolo/livecss/internal/resolver"
	"github.com/yacobolo/livecss/internal/safe"
)

// Issue is a contained failure: an element or token that could not be
// processed. Processing of everything else continued.
type Issue struct {
	Page     string `json:"page,omitempty"` // set by Build
	Op       string `json:"op"`             // "processElement", "generate", "resetCSS"
	Subject  string `json:"subject"`        // element path or token
	Text     string `json:"text"`
	Severity string `json:"severity"`
	Panic    bool   `json:"panic,omitempty"`
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

func newIssue(f safe.Failure) Issue {
	issue := Issue{
		Op:       f.Op,
		Subject:  f.Subject,
		Text:     f.Err.Error(),
		Severity: SeverityError,
	}

	var pe *safe.PanicError
	issue.Panic = errors.As(f.Err, &pe)

	// Bad author input is a warning; anything else is a runtime error.
	if !issue.Panic && (errors.Is(f.Err, resolver.ErrUnknownVariant) ||
		errors.Is(f.Err, resolver.ErrUnbalancedGroup) ||
		errors.Is(f.Err, resolver.ErrShortcutCycle) ||
		errors.Is(f.Err, resolver.ErrUnsafeValue)) {
		issue.Severity = SeverityWarning
	}
	return issue
}
