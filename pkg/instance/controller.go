// Package instance drives a single compute instance through a start/stop
// action and polls the provider until the instance converges on the
// action's terminal state.
package instance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/cloud"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/retry"
)

// Controller resolves one instance by partial name and applies power
// actions to it. It holds no state between calls; every observation is
// fetched fresh from the provider.
type Controller struct {
	provider cloud.Provider
	poll     retry.Policy
	connect  retry.Policy
}

// New builds a controller with the given poll and transient-connection
// retry budgets. Zero-valued policies fall back to the package defaults.
func New(provider cloud.Provider, poll, connect retry.Policy) *Controller {
	if poll.MaxAttempts == 0 {
		poll = retry.DefaultPoll
	}
	if connect.MaxAttempts == 0 {
		connect = retry.DefaultConnect
	}
	return &Controller{provider: provider, poll: poll, connect: connect}
}

// Apply resolves exactly one instance whose display name contains
// partialName, issues the action, and polls until the instance reaches the
// action's target state.
//
// Failure modes: *NotFoundError / *AmbiguousMatchError when resolution does
// not yield exactly one instance, *ConnectionError when the provider API is
// unreachable, ErrPollTimeout when the attempt budget runs out before
// convergence.
func (c *Controller) Apply(ctx context.Context, partialName string, action cloud.Action) (*cloud.Instance, error) {
	if !action.Valid() {
		return nil, fmt.Errorf("unsupported action %q", action)
	}

	if err := c.validateConnection(ctx); err != nil {
		actionTotal.WithLabelValues(string(action), "error").Inc()
		return nil, &ConnectionError{Err: err}
	}

	inst, err := c.resolve(ctx, partialName)
	if err != nil {
		actionTotal.WithLabelValues(string(action), "error").Inc()
		return nil, err
	}

	target := action.TargetState()
	slog.Info("resolved instance",
		slog.String("id", inst.ID),
		slog.String("name", inst.Name),
		slog.String("state", string(inst.State)),
		slog.String("action", string(action)),
		slog.String("target", string(target)))

	if inst.State == target {
		slog.Info("instance already in target state, skipping action",
			slog.String("id", inst.ID), slog.String("state", string(target)))
		actionTotal.WithLabelValues(string(action), "success").Inc()
		return inst, nil
	}

	if err := c.issue(ctx, inst.ID, action); err != nil {
		actionTotal.WithLabelValues(string(action), "error").Inc()
		return nil, err
	}

	converged, err := c.waitForState(ctx, inst.ID, target)
	if err != nil {
		if errors.Is(err, ErrPollTimeout) {
			actionTotal.WithLabelValues(string(action), "timeout").Inc()
		} else {
			actionTotal.WithLabelValues(string(action), "error").Inc()
		}
		return nil, err
	}

	actionTotal.WithLabelValues(string(action), "success").Inc()
	return converged, nil
}

// validateConnection checks that the provider API is reachable, retrying
// under the connect budget. Only transient failures (network timeouts,
// throttling) are retried; auth and other permanent failures surface on
// the first attempt.
func (c *Controller) validateConnection(ctx context.Context) error {
	var last error
	err := c.connect.Do(ctx, func(ctx context.Context) (bool, error) {
		err := c.provider.Validate(ctx)
		if err == nil {
			return true, nil
		}
		if !cloud.IsTransient(err) {
			return false, err
		}
		last = err
		slog.Warn("transient cloud connection failure, retrying",
			slog.String("error", err.Error()))
		return false, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, retry.ErrBudgetExhausted) && last != nil:
		return fmt.Errorf("%w: %w", retry.ErrBudgetExhausted, last)
	default:
		return err
	}
}

// resolve lists instances and requires the partial name to match exactly
// one display name.
func (c *Controller) resolve(ctx context.Context, partialName string) (*cloud.Instance, error) {
	instances, err := c.provider.ListInstances(ctx)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	matches := []cloud.Instance{}
	for _, inst := range instances {
		if strings.Contains(inst.Name, partialName) {
			matches = append(matches, inst)
		}
	}

	switch len(matches) {
	case 1:
		m := matches[0]
		return &m, nil
	case 0:
		return nil, &NotFoundError{
			Pattern:    partialName,
			Suggestion: nearestName(partialName, instances),
		}
	default:
		names := make([]string, 0, len(matches))
		for _, m := range matches {
			names = append(names, m.Name)
		}
		return nil, &AmbiguousMatchError{Pattern: partialName, Names: names}
	}
}

func (c *Controller) issue(ctx context.Context, id string, action cloud.Action) error {
	slog.Info("issuing instance action", slog.String("id", id), slog.String("action", string(action)))
	var err error
	if action == cloud.ActionStop {
		err = c.provider.StopInstance(ctx, id)
	} else {
		err = c.provider.StartInstance(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to %s instance %s: %w", action, id, err)
	}
	return nil
}

// waitForState polls the instance until it reports the target state or the
// attempt budget runs out. Read errors during a poll consume an attempt and
// are logged at warning, matching the best-effort read semantics of the
// status endpoint.
func (c *Controller) waitForState(ctx context.Context, id string, target cloud.State) (*cloud.Instance, error) {
	var (
		observed *cloud.Instance
		attempt  int
	)

	err := c.poll.Do(ctx, func(ctx context.Context) (bool, error) {
		attempt++
		inst, err := c.provider.GetInstance(ctx, id)
		if err != nil {
			slog.Warn("error checking instance state",
				slog.String("id", id),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return false, nil
		}

		slog.Info("polled instance state",
			slog.String("id", id),
			slog.Int("attempt", attempt),
			slog.String("state", string(inst.State)),
			slog.String("target", string(target)))

		if inst.State == target {
			observed = inst
			return true, nil
		}
		return false, nil
	})

	if err != nil {
		if errors.Is(err, retry.ErrBudgetExhausted) {
			return nil, fmt.Errorf("instance %s did not reach %s after %d attempts: %w",
				id, target, c.poll.MaxAttempts, ErrPollTimeout)
		}
		return nil, err
	}

	pollAttempts.Observe(float64(attempt))
	slog.Info("instance reached target state",
		slog.String("id", id),
		slog.String("state", string(target)),
		slog.Int("attempts", attempt))
	return observed, nil
}

// nearestName returns the display name closest to the pattern, or empty
// when nothing is close enough to be worth printing. Because the pattern
// is a substring matcher, each name is scored by the best-matching window
// of the pattern's length, and a suggestion is only made when that window
// is within half the pattern of an exact match.
func nearestName(pattern string, instances []cloud.Instance) string {
	best := ""
	bestDist := -1
	for _, inst := range instances {
		if inst.Name == "" {
			continue
		}
		d := windowDistance(pattern, inst.Name)
		if bestDist == -1 || d < bestDist {
			best, bestDist = inst.Name, d
		}
	}
	if bestDist == -1 || bestDist*2 > len(pattern) {
		return ""
	}
	return best
}

// windowDistance is the smallest edit distance between the pattern and any
// window of the name with the pattern's length.
func windowDistance(pattern, name string) int {
	if len(name) <= len(pattern) {
		return levenshtein.ComputeDistance(pattern, name)
	}
	best := -1
	for i := 0; i+len(pattern) <= len(name); i++ {
		d := levenshtein.ComputeDistance(pattern, name[i:i+len(pattern)])
		if best == -1 || d < best {
			best = d
		}
	}
	return best
}
