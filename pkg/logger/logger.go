// Package logger constructs the application slog.Logger from configuration
// and provides attribute helpers shared across the delivery pipeline.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the log output format and verbosity.
type Config struct {
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "text"
	Level  string `env:"LOG_LEVEL" envDefault:"info"`  // debug, info, warn, error
}

// Option overrides construction defaults.
type Option func(*options)

type options struct {
	output io.Writer
	attrs  []slog.Attr
}

// WithOutput redirects log output, primarily for tests. Nil writers are
// ignored.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithAttr attaches static attributes to every record, e.g. the service name.
func WithAttr(attrs ...slog.Attr) Option {
	return func(o *options) {
		o.attrs = append(o.attrs, attrs...)
	}
}

// New builds a slog.Logger from config. Unknown formats and levels fall back
// to JSON at info level rather than failing startup over a cosmetic setting.
func New(cfg Config, opts ...Option) *slog.Logger {
	o := options{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var h slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		h = slog.NewTextHandler(o.output, handlerOpts)
	} else {
		h = slog.NewJSONHandler(o.output, handlerOpts)
	}
	if len(o.attrs) > 0 {
		h = h.WithAttrs(o.attrs)
	}
	return slog.New(h)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
