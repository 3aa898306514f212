package log

// Logger is the interface applications implement to receive board log events.
// Pass nil or NoopLogger to disable logging.
type Logger interface {
	// Log records a board event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking stalls the
	// access serializer for every device sharing the connection.
	Log(event Event)
}

// NoopLogger discards all events. Use when logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Compile-time interface satisfaction check.
var _ Logger = NoopLogger{}

// OrNoop returns l if non-nil, otherwise a NoopLogger.
// Lets holders normalize once instead of nil-checking on every event.
func OrNoop(l Logger) Logger {
	if l == nil {
		return NoopLogger{}
	}
	return l
}
