package registry

import "errors"

var (
	// ErrCompile wraps every pattern compilation failure.
	ErrCompile = errors.New("pattern compile error")

	// ErrUnknownHandle is returned when a handle is not live: it was never
	// issued, or it has been released.
	ErrUnknownHandle = errors.New("unknown handle")

	// ErrHandlesExhausted is returned when the handle counter has no values left.
	ErrHandlesExhausted = errors.New("handle space exhausted")

	// ErrHandleLive is returned by Restore when the handle is already registered.
	ErrHandleLive = errors.New("handle already live")
)
