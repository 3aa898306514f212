package log

// MultiLogger fans one event stream out to several loggers, e.g. a
// FileLogger for later analysis plus a SlogAdapter for live console
// output. Nil loggers are dropped at construction.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a logger that forwards every event to each of
// the given loggers in order.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	kept := make([]Logger, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			kept = append(kept, l)
		}
	}
	return &MultiLogger{loggers: kept}
}

// Log forwards the event to every configured logger.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

// Compile-time interface satisfaction check.
var _ Logger = (*MultiLogger)(nil)
