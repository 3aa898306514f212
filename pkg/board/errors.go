package board

import "errors"

// Board errors. All errors returned by this package wrap one of these
// sentinels; match with errors.Is.
var (
	// ErrInvalidPinSpec indicates a malformed or unsupported pin
	// capability string.
	ErrInvalidPinSpec = errors.New("invalid pin spec")

	// ErrPinModeConflict indicates the same physical pin was requested
	// with an incompatible mode.
	ErrPinModeConflict = errors.New("pin mode conflict")

	// ErrConnection indicates a transport open or handshake failure.
	ErrConnection = errors.New("connection failed")

	// ErrProtocol indicates a failed or malformed protocol exchange.
	ErrProtocol = errors.New("protocol error")

	// ErrServoConfig indicates invalid servo pulse-width bounds.
	ErrServoConfig = errors.New("invalid servo configuration")

	// ErrClosed indicates the connection has been closed.
	ErrClosed = errors.New("connection closed")

	// ErrNoTransport indicates the registry has no transport configured.
	ErrNoTransport = errors.New("no transport configured")
)
