package interpreter

import "errors"

var (
	// ErrStoreUnavailable means the inventory store could not be reached.
	// Retryable. Zero matched documents is NOT this error.
	ErrStoreUnavailable = errors.New("inventory store unavailable")

	// ErrUpstreamTimeout means the language service timed out or failed.
	// Retryable; the instruction was not partially applied.
	ErrUpstreamTimeout = errors.New("language service did not respond in time")

	// ErrUnauthorized means the caller lacks write privilege for a mutation.
	ErrUnauthorized = errors.New("caller is not allowed to modify the inventory")

	// ErrConfirmationRequired means an update/delete matches every record
	// and must not run without an explicit confirmation signal.
	ErrConfirmationRequired = errors.New("unscoped destructive operation requires confirmation")
)
