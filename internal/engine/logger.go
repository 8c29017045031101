package engine

// SLogger abstracts the [*slog.Logger] behavior.
//
// The engine uses three levels:
//   - Debug for per-entry events (entry started/ended, dialect fixed)
//   - Info for parse lifecycle (start, finish, cancellation)
//   - Warn for recovered per-property decode failures
//
// The [*slog.Logger] type satisfies this interface.
type SLogger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// DiscardLogger returns an [SLogger] that drops everything.
func DiscardLogger() SLogger {
	return discardSLogger{}
}

type discardSLogger struct{}

var _ SLogger = discardSLogger{}

// Debug implements [SLogger].
func (discardSLogger) Debug(msg string, args ...any) {}

// Info implements [SLogger].
func (discardSLogger) Info(msg string, args ...any) {}

// Warn implements [SLogger].
func (discardSLogger) Warn(msg string, args ...any) {}
