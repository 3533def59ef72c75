package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"briefly/internal/handler/http/requestid"
	"briefly/pkg/config"
)

// Output formats accepted by LOG_FORMAT.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config selects the log level and output format.
type Config struct {
	Level  slog.Level
	Format string
}

// LoadConfigFromEnv reads LOG_LEVEL (debug, info, warn, error) and
// LOG_FORMAT (json, text). Unknown values fall back to info and defaultFormat.
func LoadConfigFromEnv(defaultFormat string) Config {
	format := strings.ToLower(config.GetEnvString("LOG_FORMAT", defaultFormat))
	if format != FormatJSON && format != FormatText {
		format = defaultFormat
	}
	return Config{
		Level:  ParseLevel(config.GetEnvString("LOG_LEVEL", "info")),
		Format: format,
	}
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger writing to w.
func New(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		// source locations are only worth their size when debugging
		AddSource: cfg.Level <= slog.LevelDebug,
	}
	if cfg.Format == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// NewLogger creates the service logger: JSON on stdout unless LOG_FORMAT says otherwise.
func NewLogger() *slog.Logger {
	return New(os.Stdout, LoadConfigFromEnv(FormatJSON))
}

// NewTextLogger creates the CLI logger: text on stderr so stdout stays clean for results.
func NewTextLogger() *slog.Logger {
	return New(os.Stderr, LoadConfigFromEnv(FormatText))
}

// WithRequestID returns a new logger that includes the request ID from the context.
func WithRequestID(ctx context.Context, logger *slog.Logger) *slog.Logger {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		return logger
	}
	return logger.With(slog.String("request_id", reqID))
}

// FromContext retrieves the logger from the context, or returns the default logger if not found.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey, logger)
}

type contextKey string

const loggerContextKey contextKey = "logger"
