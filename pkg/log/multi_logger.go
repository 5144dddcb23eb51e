package log

// MultiLogger fans events out to several loggers in order, e.g. a
// SlogAdapter for the console and a FileLogger for the audit trail.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger combines loggers. Nil and NoopLogger entries are dropped
// and nested MultiLoggers are flattened.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		switch l := l.(type) {
		case nil, NoopLogger, *NoopLogger:
		case *MultiLogger:
			if l != nil {
				m.loggers = append(m.loggers, l.loggers...)
			}
		default:
			m.loggers = append(m.loggers, l)
		}
	}
	return m
}

// Len returns the number of loggers events are sent to.
func (m *MultiLogger) Len() int {
	return len(m.loggers)
}

// Log sends the event to every logger.
func (m *MultiLogger) Log(event Event) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
