package cloud

import "time"

// State is the normalized power/availability state of a compute instance.
// Provider implementations map their native state names onto this set.
type State string

const (
	// StateActive means the instance is running and reachable.
	StateActive State = "ACTIVE"

	// StateShutoff means the instance is powered off.
	StateShutoff State = "SHUTOFF"

	// StateTransition covers provider-side transitional states
	// (booting, stopping, rebooting) between the two terminal states.
	StateTransition State = "TRANSITION"

	// StateError means the provider reports the instance as faulted.
	StateError State = "ERROR"

	// StateUnknown is returned when the provider state cannot be mapped.
	StateUnknown State = "UNKNOWN"
)

// Terminal reports whether the state is stable, i.e. a state that a
// start/stop action can be polled until.
func (s State) Terminal() bool {
	return s == StateActive || s == StateShutoff
}

// Action is a requested instance power transition.
type Action string

const (
	ActionStart Action = "start"
	ActionStop  Action = "stop"
)

// TargetState returns the terminal state the action drives the instance to.
func (a Action) TargetState() State {
	if a == ActionStop {
		return StateShutoff
	}
	return StateActive
}

// Valid reports whether a is one of the supported actions.
func (a Action) Valid() bool {
	return a == ActionStart || a == ActionStop
}

// Instance is the provider-neutral view of a compute instance. State is
// always fetched fresh from the provider; nothing here is cached across
// process runs.
type Instance struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	State      State     `json:"state"`
	PrivateIP  string    `json:"privateIp,omitempty"`
	LaunchedAt time.Time `json:"launchedAt,omitzero"`
	ObservedAt time.Time `json:"observedAt"`
}
