package transmit

import "fmt"

// DiagnosticKind classifies a failure that did not abort a transmission.
type DiagnosticKind string

const (
	// DiagRouteApply: a routing path could not be staged.
	DiagRouteApply DiagnosticKind = "route_apply"
	// DiagRouteCommit: staged routing settings could not be written.
	DiagRouteCommit DiagnosticKind = "route_commit"
	// DiagTruncated: a pattern entry was clamped to the buffer size.
	DiagTruncated DiagnosticKind = "truncated"
	// DiagNegativeDuration: a pattern entry was negative and written as zero bytes.
	DiagNegativeDuration DiagnosticKind = "negative_duration"
	// DiagFinalSpace: the trailing silent buffer could not be written.
	DiagFinalSpace DiagnosticKind = "final_space_write"
	// DiagStop: PWM stop failed after an earlier failure had been recorded.
	DiagStop DiagnosticKind = "pwm_stop"
	// DiagRelease: releasing a resource failed.
	DiagRelease DiagnosticKind = "release"
)

// Diagnostic describes one failure that was logged rather than returned,
// or returned only after the sequence had already run to completion.
type Diagnostic struct {
	Kind DiagnosticKind

	// Subject names what failed: a path name, a resource, or an entry.
	Subject string

	// Index is the pattern entry for DiagTruncated and
	// DiagNegativeDuration, and -1 otherwise.
	Index int

	// Err is the underlying error, nil for DiagTruncated and
	// DiagNegativeDuration.
	Err error
}

func (d Diagnostic) String() string {
	s := string(d.Kind)
	if d.Subject != "" {
		s += " " + d.Subject
	}
	if d.Index >= 0 {
		s += fmt.Sprintf(" [%d]", d.Index)
	}
	if d.Err != nil {
		s += ": " + d.Err.Error()
	}
	return s
}
