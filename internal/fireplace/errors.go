package fireplace

import "fmt"

// ConnectError reports a failed TCP dial or a socket failure mid-exchange.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to fireplace at %s: %v", e.Addr, e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// TimeoutError reports a deadline expiring while queued or while waiting
// for the device response.
type TimeoutError struct {
	Stage string // "queue" or "response"
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for %s", e.Stage)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// PartialSequenceError reports a multi-step command that failed after at
// least one step succeeded. Device state is indeterminate until re-queried.
type PartialSequenceError struct {
	Command   string
	Completed int
	Steps     int
	Err       error
}

func (e *PartialSequenceError) Error() string {
	return fmt.Sprintf("%s interrupted after %d of %d steps: %v",
		e.Command, e.Completed, e.Steps, e.Err)
}

func (e *PartialSequenceError) Unwrap() error { return e.Err }
