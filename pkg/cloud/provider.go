package cloud

import "context"

// Provider is the minimal surface the instance controller needs from a
// cloud compute API. Implementations must be safe for sequential reuse
// within a single run; no call mutates shared client state.
type Provider interface {
	// ListInstances returns all instances visible to the configured
	// credentials profile.
	ListInstances(ctx context.Context) ([]Instance, error)

	// GetInstance returns the current view of a single instance by ID.
	GetInstance(ctx context.Context, id string) (*Instance, error)

	// StartInstance requests a start of the given instance. The request is
	// asynchronous; callers poll GetInstance for convergence.
	StartInstance(ctx context.Context, id string) error

	// StopInstance requests a stop of the given instance. Asynchronous,
	// same as StartInstance.
	StopInstance(ctx context.Context, id string) error

	// Validate performs a cheap call against the provider API to confirm
	// the credentials profile resolves and the endpoint is reachable.
	Validate(ctx context.Context) error
}
