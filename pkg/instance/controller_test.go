package instance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/cloud"
	"github.com/jaskaranhundal/cloud-node-pod-cleanup-tool/pkg/retry"
)

// fakeProvider scripts the provider responses: instances for resolution,
// a state sequence for successive polls.
type fakeProvider struct {
	instances     []cloud.Instance
	states        []cloud.State
	polls         int
	started       []string
	stopped       []string
	validateErr   error
	validateCalls int
	listErr       error
	getErr        error
}

func (f *fakeProvider) ListInstances(ctx context.Context) ([]cloud.Instance, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.instances, nil
}

func (f *fakeProvider) GetInstance(ctx context.Context, id string) (*cloud.Instance, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	state := f.states[len(f.states)-1]
	if f.polls < len(f.states) {
		state = f.states[f.polls]
	}
	f.polls++
	return &cloud.Instance{ID: id, State: state, ObservedAt: time.Now()}, nil
}

func (f *fakeProvider) StartInstance(ctx context.Context, id string) error {
	f.started = append(f.started, id)
	return nil
}

func (f *fakeProvider) StopInstance(ctx context.Context, id string) error {
	f.stopped = append(f.stopped, id)
	return nil
}

func (f *fakeProvider) Validate(ctx context.Context) error {
	f.validateCalls++
	return f.validateErr
}

func fastPolicies() (poll, connect retry.Policy) {
	poll = retry.Policy{MaxAttempts: 5, Interval: time.Millisecond, Factor: 1}
	connect = retry.Policy{MaxAttempts: 2, Interval: time.Millisecond, Factor: 1}
	return
}

func TestApplyStartConvergesWithinBudget(t *testing.T) {
	provider := &fakeProvider{
		instances: []cloud.Instance{{ID: "i-1", Name: "cluster-node2", State: cloud.StateShutoff}},
		states:    []cloud.State{cloud.StateTransition, cloud.StateTransition, cloud.StateActive},
	}
	poll, connect := fastPolicies()

	inst, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStart)

	require.NoError(t, err)
	assert.Equal(t, cloud.StateActive, inst.State)
	assert.Equal(t, []string{"i-1"}, provider.started)
	assert.Equal(t, 3, provider.polls)
}

func TestApplyStopConverges(t *testing.T) {
	provider := &fakeProvider{
		instances: []cloud.Instance{{ID: "i-1", Name: "cluster-node2", State: cloud.StateActive}},
		states:    []cloud.State{cloud.StateTransition, cloud.StateShutoff},
	}
	poll, connect := fastPolicies()

	inst, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStop)

	require.NoError(t, err)
	assert.Equal(t, cloud.StateShutoff, inst.State)
	assert.Equal(t, []string{"i-1"}, provider.stopped)
}

// The poller must give up after exactly the configured number of attempts.
func TestApplyPollTimeoutAfterExactBudget(t *testing.T) {
	provider := &fakeProvider{
		instances: []cloud.Instance{{ID: "i-1", Name: "cluster-node2", State: cloud.StateShutoff}},
		states:    []cloud.State{cloud.StateTransition},
	}
	poll, connect := fastPolicies()

	_, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStart)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPollTimeout)
	assert.Equal(t, poll.MaxAttempts, provider.polls)
}

func TestApplySkipsActionWhenAlreadyInTargetState(t *testing.T) {
	provider := &fakeProvider{
		instances: []cloud.Instance{{ID: "i-1", Name: "cluster-node2", State: cloud.StateActive}},
	}
	poll, connect := fastPolicies()

	inst, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStart)

	require.NoError(t, err)
	assert.Equal(t, cloud.StateActive, inst.State)
	assert.Empty(t, provider.started, "no action should be issued")
	assert.Zero(t, provider.polls, "no polling needed")
}

func TestApplyInstanceNotFound(t *testing.T) {
	provider := &fakeProvider{
		instances: []cloud.Instance{{ID: "i-1", Name: "cluster-node1", State: cloud.StateActive}},
	}
	poll, connect := fastPolicies()

	_, err := New(provider, poll, connect).Apply(context.Background(), "node9", cloud.ActionStart)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "node9", notFound.Pattern)
	assert.Equal(t, "cluster-node1", notFound.Suggestion)
}

func TestApplyAmbiguousMatch(t *testing.T) {
	provider := &fakeProvider{
		instances: []cloud.Instance{
			{ID: "i-1", Name: "cluster-node2", State: cloud.StateActive},
			{ID: "i-2", Name: "cluster-node20", State: cloud.StateActive},
		},
	}
	poll, connect := fastPolicies()

	_, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStart)

	var ambiguous *AmbiguousMatchError
	require.ErrorAs(t, err, &ambiguous)
	assert.Len(t, ambiguous.Names, 2)
}

func TestApplyConnectionErrorOnValidate(t *testing.T) {
	provider := &fakeProvider{validateErr: errors.New("dial tcp: connection refused")}
	poll, connect := fastPolicies()

	_, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStart)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.NotErrorIs(t, err, ErrPollTimeout, "connection failure must be distinguishable from poll timeout")
}

// Permanent validation failures (bad credentials, auth errors) must not
// burn the connect budget.
func TestApplyFailsFastOnPermanentValidateError(t *testing.T) {
	provider := &fakeProvider{validateErr: errors.New("AuthFailure: credentials could not be validated")}
	poll, connect := fastPolicies()

	_, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStart)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, 1, provider.validateCalls, "non-transient failures must not be retried")
}

func TestApplyRetriesTransientValidateError(t *testing.T) {
	provider := &fakeProvider{
		validateErr: &cloud.TransientError{Err: errors.New("dial tcp: i/o timeout")},
	}
	poll, connect := fastPolicies()

	_, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStart)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.ErrorIs(t, err, retry.ErrBudgetExhausted)
	assert.Equal(t, connect.MaxAttempts, provider.validateCalls)
}

func TestApplyConnectionErrorOnList(t *testing.T) {
	provider := &fakeProvider{listErr: errors.New("dial tcp: i/o timeout")}
	poll, connect := fastPolicies()

	_, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStart)

	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
}

// Poll read errors consume attempts but do not abort the wait.
func TestApplyToleratesTransientPollErrors(t *testing.T) {
	provider := &fakeProvider{
		instances: []cloud.Instance{{ID: "i-1", Name: "cluster-node2", State: cloud.StateShutoff}},
		getErr:    errors.New("status endpoint flaked"),
	}
	poll, connect := fastPolicies()

	_, err := New(provider, poll, connect).Apply(context.Background(), "node2", cloud.ActionStart)

	assert.ErrorIs(t, err, ErrPollTimeout)
}

func TestApplyRejectsUnknownAction(t *testing.T) {
	poll, connect := fastPolicies()
	_, err := New(&fakeProvider{}, poll, connect).Apply(context.Background(), "node2", cloud.Action("reboot"))
	assert.Error(t, err)
}

func TestNearestName(t *testing.T) {
	instances := []cloud.Instance{
		{Name: "cluster-node1"},
		{Name: "cluster-node2"},
	}
	assert.Equal(t, "cluster-node1", nearestName("cluster-node1x", instances))

	// Near-miss substring patterns still get a suggestion.
	assert.Equal(t, "cluster-node1", nearestName("node1", instances))

	// Unrelated fleets do not.
	assert.Equal(t, "", nearestName("node9", []cloud.Instance{{Name: "db-primary"}}))
	assert.Equal(t, "", nearestName("zzzzz", nil))
}
