package freeze

import "errors"

// Sentinel errors for freeze operations.
var (
	// ErrUnfreezable is returned when no adapter and no generic decomposition
	// applies to a value's type.
	ErrUnfreezable = errors.New("freeze: unfreezable type")

	// ErrRecursionLimit is returned when traversal exceeds
	// Config.RecursionLimit. Retriable with a larger limit.
	ErrRecursionLimit = errors.New("freeze: recursion limit exceeded")

	// ErrBadFrozenState is returned when a hook or adapter yields a malformed
	// canonical representation.
	ErrBadFrozenState = errors.New("freeze: malformed frozen state")
)
