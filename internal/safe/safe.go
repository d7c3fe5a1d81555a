// Package safe isolates units of work so that one failure never aborts a batch.
package safe

import (
	"fmt"
	"runtime/debug"
)

// Failure describes a unit of work that returned an error or panicked.
type Failure struct {
	Op      string // operation label, e.g. "processElement"
	Subject string // what was being processed, e.g. an element path or a token
	Err     error
	Stack   []byte // set for panics only
}

func (f Failure) Error() string {
	if f.Subject == "" {
		return fmt.Sprintf("%s: %v", f.Op, f.Err)
	}
	return fmt.Sprintf("%s %s: %v", f.Op, f.Subject, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Reporter receives failures. It must not panic.
type Reporter func(Failure)

// PanicError wraps a recovered panic value.
type PanicError struct {
	Value any
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", p.Value)
}

// Run executes fn. A returned error or a panic is handed to report and Run
// returns false; nothing propagates to the caller.
func Run(report Reporter, op, subject string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if report != nil {
				report(Failure{Op: op, Subject: subject, Err: &PanicError{Value: r}, Stack: debug.Stack()})
			}
		}
	}()

	if err := fn(); err != nil {
		if report != nil {
			report(Failure{Op: op, Subject: subject, Err: err})
		}
		return false
	}
	return true
}
