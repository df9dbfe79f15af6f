package logger

import (
	"context"
	"log/slog"
	"os"
)

var defaultLogger *slog.Logger

func init() {
	// Bootstrap from the raw environment so messages emitted before the
	// config layer loads still use the right handler. Configure replaces
	// this once the config is known.
	Configure(os.Getenv("SUBTRACK_ENV") == "production")
}

// Configure rebuilds the default logger: JSON when running under a
// supervisor, text for interactive use.
func Configure(production bool) {
	var handler slog.Handler
	if production {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// Logger returns the default logger
func Logger() *slog.Logger {
	return defaultLogger
}

// Context keys
type contextKey string

const (
	commandKey        contextKey = "command"
	subscriptionIDKey contextKey = "subscription_id"
)

// WithCommand adds the active CLI command to context
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, commandKey, command)
}

// WithSubscriptionID adds a subscription ID to context
func WithSubscriptionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, subscriptionIDKey, id)
}

// FromContext returns a logger with context values
func FromContext(ctx context.Context) *slog.Logger {
	l := defaultLogger

	if command, ok := ctx.Value(commandKey).(string); ok && command != "" {
		l = l.With("command", command)
	}

	if id, ok := ctx.Value(subscriptionIDKey).(string); ok && id != "" {
		l = l.With("subscription_id", id)
	}

	return l
}

// Convenience functions

func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}
