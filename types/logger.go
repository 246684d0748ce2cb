package types

// Logger is the structured logging interface the factory runtime logs
// through. It is intentionally narrow - one printf-style method per level -
// so any of the logging libraries the wider ecosystem uses (zap, zerolog,
// logrus, the standard library's slog) can back it with a thin adapter.
// Package logging provides the zap-backed default.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything. It is the Config default so a Factory
// built without WithLogger never panics on a nil Logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
