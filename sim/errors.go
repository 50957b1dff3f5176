package sim

import "errors"

// Error taxonomy for the control surface. Callers match with errors.Is;
// messages carry the offending value via fmt.Errorf("%w: ...") wrapping.
var (
	// ErrInvalidArgument marks malformed input: empty or non-positive burst
	// lists, negative clock deltas, negative blocking latencies.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState marks an operation that is not valid for the entity's
	// current state, e.g. suspending a terminated process.
	ErrInvalidState = errors.New("invalid state")

	// ErrNotFound marks a reference to an unknown (or purged) process or
	// thread id.
	ErrNotFound = errors.New("not found")
)
