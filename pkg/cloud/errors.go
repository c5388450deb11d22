package cloud

import "errors"

// TransientError marks a provider failure that is worth retrying: network
// timeouts, throttling, server-side 5xx. Definitive answers from the
// provider (bad credentials, invalid requests) are surfaced unwrapped so
// callers fail fast instead of burning a retry budget.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err carries a TransientError anywhere in its
// chain.
func IsTransient(err error) bool {
	var transient *TransientError
	return errors.As(err, &transient)
}
