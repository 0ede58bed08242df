package flecs

import "errors"

var (
	// ErrUnstableLayout marks a component type whose memory layout cannot be
	// handed to the engine, e.g. because it contains pointers the garbage
	// collector tracks.
	ErrUnstableLayout = errors.New("component layout is not stable across the native boundary")

	// ErrInvalidParameter wraps a registration the engine rejected.
	ErrInvalidParameter = errors.New("engine rejected the registration")

	// ErrUnknownHandle means a binding context handle did not resolve. Inside
	// a tick this is fatal and turns into a panic.
	ErrUnknownHandle = errors.New("unknown binding context handle")
)
