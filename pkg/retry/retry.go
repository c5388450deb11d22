// Package retry holds the bounded retry/backoff policy shared by the
// instance poller and transient-connection handling. Policy is plain
// configuration; the looping itself is delegated to apimachinery's wait
// helpers.
package retry

import (
	"context"
	"errors"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// ErrBudgetExhausted is returned by Do when the condition never completed
// within the configured attempt budget.
var ErrBudgetExhausted = errors.New("retry budget exhausted")

// Policy describes a bounded retry loop: up to MaxAttempts invocations,
// Interval between them, each delay multiplied by Factor.
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
	Factor      float64
}

// DefaultPoll is the fixed-interval budget used when polling an instance
// toward a terminal state.
var DefaultPoll = Policy{MaxAttempts: 10, Interval: 5 * time.Second, Factor: 1}

// DefaultConnect is the exponential budget used for transient connection
// failures against the cloud API.
var DefaultConnect = Policy{MaxAttempts: 3, Interval: 5 * time.Second, Factor: 2}

// Backoff converts the policy into an apimachinery backoff.
func (p Policy) Backoff() wait.Backoff {
	factor := p.Factor
	if factor <= 0 {
		factor = 1
	}
	return wait.Backoff{
		Duration: p.Interval,
		Factor:   factor,
		Steps:    p.MaxAttempts,
	}
}

// Do invokes cond until it reports done, returns a hard error, or the
// attempt budget runs out. Budget exhaustion surfaces as
// ErrBudgetExhausted; context cancellation surfaces as the context error.
func (p Policy) Do(ctx context.Context, cond func(context.Context) (bool, error)) error {
	err := wait.ExponentialBackoffWithContext(ctx, p.Backoff(), cond)
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	case wait.Interrupted(err):
		return ErrBudgetExhausted
	default:
		return err
	}
}

// Retry runs op up to the attempt budget, treating every returned error as
// transient. On exhaustion the last error from op is returned rather than
// ErrBudgetExhausted so callers see the underlying cause.
func (p Policy) Retry(ctx context.Context, op func(context.Context) error) error {
	var last error
	err := p.Do(ctx, func(ctx context.Context) (bool, error) {
		if last = op(ctx); last != nil {
			return false, nil
		}
		return true, nil
	})
	if errors.Is(err, ErrBudgetExhausted) && last != nil {
		return last
	}
	return err
}
