// Package monitoring abstracts the optional error-tracking integration.
//
// Components take an Observer at construction; passing Nop disables
// monitoring without any runtime lookups or nil checks at call sites.
package monitoring

import (
	"context"
	"log/slog"
)

// Severity of a captured message.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Observer receives operational breadcrumbs and captures from the pipeline.
// Implementations must never panic; callers treat every method as
// fire-and-forget.
type Observer interface {
	// Breadcrumb records a low-severity trace of a pipeline step.
	Breadcrumb(ctx context.Context, category, message string, data map[string]any)
	// CaptureMessage reports a noteworthy condition at the given severity.
	CaptureMessage(ctx context.Context, severity Severity, message string, data map[string]any)
	// CaptureError reports an error with optional context data.
	CaptureError(ctx context.Context, err error, data map[string]any)
}

// Nop is the default Observer when no monitoring backend is configured.
type Nop struct{}

func (Nop) Breadcrumb(context.Context, string, string, map[string]any)       {}
func (Nop) CaptureMessage(context.Context, Severity, string, map[string]any) {}
func (Nop) CaptureError(context.Context, error, map[string]any)              {}

// Slog routes observer traffic to a structured logger. Useful in
// environments without a dedicated monitoring backend.
type Slog struct {
	Log *slog.Logger
}

func (s Slog) Breadcrumb(ctx context.Context, category, message string, data map[string]any) {
	s.Log.DebugContext(ctx, message, slog.String("category", category), slog.Any("data", data))
}

func (s Slog) CaptureMessage(ctx context.Context, severity Severity, message string, data map[string]any) {
	level := slog.LevelInfo
	switch severity {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityError:
		level = slog.LevelError
	}
	s.Log.LogAttrs(ctx, level, message, slog.Any("data", data))
}

func (s Slog) CaptureError(ctx context.Context, err error, data map[string]any) {
	s.Log.ErrorContext(ctx, "captured error", slog.Any("error", err), slog.Any("data", data))
}
