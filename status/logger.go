package status

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jmgilman/texio/errors"
)

// LogConfig configures the slog logger built by NewSlog.
type LogConfig struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string
	// Format selects the handler: "text" or "json".
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultLogConfig logs warnings and above as text to stderr.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "warn", Format: "text", Output: os.Stderr}
}

// NewSlog builds a *slog.Logger from cfg.
func NewSlog(cfg LogConfig) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(out, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "invalid log format: %s", cfg.Format)
	}
}

// ParseLevel parses a level name. The empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Newf(errors.CodeInvalidConfig, "invalid log level: %s", level)
	}
}

// logSink forwards reports to slog.
type logSink struct {
	logger *slog.Logger
}

// NewLogger returns a Sink that writes each report as one slog record.
// Coded errors contribute their code and context as attributes.
func NewLogger(logger *slog.Logger) Sink {
	if logger == nil {
		logger = slog.Default()
	}
	return &logSink{logger: logger}
}

func (s *logSink) Report(kind Kind, msg string, err error) {
	level := slog.LevelInfo
	switch kind {
	case Warning:
		level = slog.LevelWarn
	case Error:
		level = slog.LevelError
	}

	ctx := context.Background()
	if !s.logger.Enabled(ctx, level) {
		return
	}
	s.logger.LogAttrs(ctx, level, msg, errorAttrs(err)...)
}

func errorAttrs(err error) []slog.Attr {
	if err == nil {
		return nil
	}
	attrs := []slog.Attr{slog.String("error", err.Error())}

	var coded errors.Error
	if !errors.As(err, &coded) {
		return attrs
	}
	attrs = append(attrs, slog.String("code", string(coded.Code())))
	for k, v := range coded.Context() {
		attrs = append(attrs, slog.String(k, fmt.Sprint(v)))
	}
	return attrs
}
