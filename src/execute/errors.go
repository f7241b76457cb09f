package execute

import (
	"context"
	"errors"
	"fmt"

	"github.com/mosaicnetworks/hashgraph-sdk/src/hapi"
	"github.com/mosaicnetworks/hashgraph-sdk/src/status"
)

// ExhaustionReason says why the Executor gave up.
type ExhaustionReason uint32

const (
	// MaxAttempts means the attempt ceiling of the backoff policy was reached.
	MaxAttempts ExhaustionReason = iota
	// NodesUnhealthy means no node could be readmitted before the deadline.
	NodesUnhealthy
	// Deadline means the context deadline expired.
	Deadline
	// Cancelled means the context was cancelled.
	Cancelled
)

func (r ExhaustionReason) String() string {
	switch r {
	case MaxAttempts:
		return "max attempts exceeded"
	case NodesUnhealthy:
		return "all nodes unhealthy"
	case Deadline:
		return "deadline exceeded"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ExhaustionError is returned when retries stopped before a definite answer.
// It carries the last status observed, if any, and the last transport fault.
type ExhaustionError struct {
	Reason    ExhaustionReason
	Operation string
	Attempts  int

	LastStatus   status.Status
	StatusSeen   bool
	LastErr      error
	contextError error
}

// Error implements the error interface.
func (e *ExhaustionError) Error() string {
	msg := fmt.Sprintf("%s: %s after %d attempts", e.Operation, e.Reason, e.Attempts)
	if e.StatusSeen {
		msg += fmt.Sprintf(", last status %s", e.LastStatus)
	}
	if e.LastErr != nil {
		msg += fmt.Sprintf(", last error: %v", e.LastErr)
	}
	return msg
}

// Unwrap returns the context error for deadline and cancellation, the last
// transport fault otherwise.
func (e *ExhaustionError) Unwrap() error {
	if e.contextError != nil {
		return e.contextError
	}
	return e.LastErr
}

// NewContextError builds the ExhaustionError for a context that is done.
// ctxErr is the error returned by ctx.Err().
func NewContextError(operation string, attempts int, ctxErr error) *ExhaustionError {
	reason := Cancelled
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		reason = Deadline
	}
	return &ExhaustionError{
		Reason:       reason,
		Operation:    operation,
		Attempts:     attempts,
		contextError: ctxErr,
	}
}

// StatusError is a terminal status returned by a node. It is never retried.
type StatusError struct {
	Status        status.Status
	Operation     string
	NodeAccountID hapi.AccountID
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: node %s returned %s", e.Operation, e.NodeAccountID, e.Status)
}

// IsStatus reports whether err carries a terminal status equal to s.
func IsStatus(err error, s status.Status) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == s
}

// IsExhausted reports whether err is an ExhaustionError with the given reason.
func IsExhausted(err error, reason ExhaustionReason) bool {
	var ee *ExhaustionError
	return errors.As(err, &ee) && ee.Reason == reason
}
