// Package helioslog is the thin structured-logging seam used by app: a
// small Logger interface so app does not hard-depend on zap,
// plus a zap-backed implementation and a no-op default.
package helioslog

import "go.uber.org/zap"

// Logger is the structured logger contract used throughout the engine.
// With returns a child logger carrying an extra key/value pair; Info and
// Error accept loosely-typed key/value pairs the way zap.SugaredLogger
// does, since call sites vary widely in what they want to attach.
type Logger interface {
	With(key string, value any) Logger
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// Nop returns a Logger that discards everything, the default for an App
// built without WithLogger.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) With(string, any) Logger { return nopLogger{} }
func (nopLogger) Info(string, ...any)     {}
func (nopLogger) Warn(string, ...any)     {}
func (nopLogger) Error(string, ...any)    {}

// NewZap adapts a *zap.Logger to Logger. A nil l is treated the same as
// zap.NewNop().
func NewZap(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return zapLogger{l: l.Sugar()}
}

type zapLogger struct {
	l *zap.SugaredLogger
}

func (z zapLogger) With(key string, value any) Logger {
	return zapLogger{l: z.l.With(key, value)}
}

func (z zapLogger) Info(msg string, kv ...any)  { z.l.Infow(msg, kv...) }
func (z zapLogger) Warn(msg string, kv ...any)  { z.l.Warnw(msg, kv...) }
func (z zapLogger) Error(msg string, kv ...any) { z.l.Errorw(msg, kv...) }
