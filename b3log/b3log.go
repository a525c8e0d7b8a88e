// Package b3log provides the engine's operational logging: startup,
// shutdown, operator errors, and IO failures, as distinct from the
// domain parameter trace written by mcmclog. Logger is a small capability
// interface so callers can swap in a no-op implementation (tests, library
// embeddings that don't want engine log noise) without touching call
// sites.
package b3log

import "go.uber.org/zap"

// Logger is the operational logging surface the engine depends on.
type Logger interface {
	With(fields ...zap.Field) Logger
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)
}

// zapLogger adapts a *zap.Logger to Logger.
type zapLogger struct {
	z *zap.Logger
}

// New wraps z as a Logger.
func New(z *zap.Logger) Logger {
	return &zapLogger{z: z}
}

// NewProduction returns a Logger backed by zap's production configuration
// (JSON encoding, info level and above).
func NewProduction() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return New(z), nil
}

func (l *zapLogger) With(fields ...zap.Field) Logger {
	return &zapLogger{z: l.z.With(fields...)}
}

func (l *zapLogger) Info(msg string, fields ...zap.Field)  { l.z.Info(msg, fields...) }
func (l *zapLogger) Warn(msg string, fields ...zap.Field)  { l.z.Warn(msg, fields...) }
func (l *zapLogger) Error(msg string, fields ...zap.Field) { l.z.Error(msg, fields...) }
func (l *zapLogger) Fatal(msg string, fields ...zap.Field) { l.z.Fatal(msg, fields...) }

// noop implements Logger with no-op methods, for tests and embeddings
// that don't want engine log noise.
type noop struct{}

// NewNoOp returns a Logger that discards everything.
func NewNoOp() Logger { return noop{} }

func (noop) With(fields ...zap.Field) Logger        { return noop{} }
func (noop) Info(msg string, fields ...zap.Field)   {}
func (noop) Warn(msg string, fields ...zap.Field)   {}
func (noop) Error(msg string, fields ...zap.Field)  {}
func (noop) Fatal(msg string, fields ...zap.Field)  {}
