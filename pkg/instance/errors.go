package instance

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPollTimeout is returned when the instance never reached the action's
// target state within the poll attempt budget.
var ErrPollTimeout = errors.New("timed out waiting for instance to reach target state")

// NotFoundError is returned when the partial name matched no instance.
// Suggestion carries the nearest known display name, when one is close
// enough to be worth printing.
type NotFoundError struct {
	Pattern    string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no instance matching %q (did you mean %q?)", e.Pattern, e.Suggestion)
	}
	return fmt.Sprintf("no instance matching %q", e.Pattern)
}

// AmbiguousMatchError is returned when the partial name matched more than
// one instance. The caller must narrow the pattern.
type AmbiguousMatchError struct {
	Pattern string
	Names   []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("partial name %q matches %d instances: %s",
		e.Pattern, len(e.Names), strings.Join(e.Names, ", "))
}

// ConnectionError marks the provider API as unreachable, as opposed to
// reachable-but-not-converged (ErrPollTimeout). Callers use errors.As to
// apply connection-specific retry policy upstream.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cloud API unreachable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
