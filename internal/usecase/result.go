package usecase

// Result is the per-message outcome a handler reports to the polling
// driver. The driver owns the acknowledgement policy; handlers only state
// what happened.
type Result int

const (
	// ResultOK: processing finished (or was correctly skipped); delete the
	// message.
	ResultOK Result = iota
	// ResultRetry: transient failure or not-yet-ready; leave the message
	// for redelivery after the visibility window.
	ResultRetry
	// ResultDrop: the message is unusable (malformed, unknown shape);
	// delete it without processing.
	ResultDrop
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultRetry:
		return "retry"
	case ResultDrop:
		return "drop"
	default:
		return "unknown"
	}
}
