// Package logger carries a zap logger through contexts. The CLI, the HTTP
// server and the window all log through it, and libraries that expect a
// *slog.Logger are bridged onto the same core.
package logger

import (
	"context"
	"log/slog"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const (
	// DevelopmentEnvironment logs human readable lines at debug level, which
	// includes the raw and normalized text of every formula.
	DevelopmentEnvironment = "development"

	// ProductionEnvironment logs JSON lines at info level.
	ProductionEnvironment = "production"
)

// base is the process-wide logger used when a context carries none.
var base atomic.Pointer[zap.Logger] //nolint: gochecknoglobals

// Setup builds the process-wide logger for environment. Unknown environments
// are treated as development.
func Setup(environment string) {
	l, err := build(environment)
	if err != nil {
		l = zap.NewNop()
	}
	base.Store(l)
}

func build(environment string) (*zap.Logger, error) {
	if environment == ProductionEnvironment {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "time"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true

	return cfg.Build()
}

type key struct{}

// Get returns the logger stored in ctx, the process-wide logger, or a no-op
// logger before Setup has run.
func Get(ctx context.Context) *zap.Logger {
	if l, _ := ctx.Value(key{}).(*zap.Logger); l != nil {
		return l
	}
	if l := base.Load(); l != nil {
		return l
	}

	return zap.NewNop()
}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, key{}, l)
}

// WithFields returns a copy of ctx whose logger adds fields to every entry.
func WithFields(ctx context.Context, fields ...zapcore.Field) context.Context {
	return WithLogger(ctx, Get(ctx).With(fields...))
}

// Named returns a copy of ctx whose logger name is extended with name, e.g.
// "serve" or "window".
func Named(ctx context.Context, name string) context.Context {
	return WithLogger(ctx, Get(ctx).Named(name))
}

// Slog returns a *slog.Logger named name that writes to the core of the
// logger in ctx.
func Slog(ctx context.Context, name string) *slog.Logger {
	return slog.New(zapslog.NewHandler(Get(ctx).Core(), zapslog.WithName(name)))
}

func Debug(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Debug(msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Info(msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Warn(msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Error(msg, fields...)
}

// Fatal logs at fatal level and exits the process.
func Fatal(ctx context.Context, msg string, fields ...zapcore.Field) {
	Get(ctx).Fatal(msg, fields...)
}
