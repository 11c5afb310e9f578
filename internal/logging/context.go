package logging

import (
	"context"
	"log/slog"

	"intake/internal/services"
)

// Shared structured logging field names. Keeping these centralized makes
// log queries stable across components.
const (
	FieldComponent = "component"
	FieldCaptureID = "capture_id"
	FieldState     = "state"
	FieldTracker   = "tracker"
	FieldEventType = "event_type"
	FieldAlert     = "alert"
	FieldError     = "error"
)

// ContextFields extracts capture metadata stored on the context as attrs.
func ContextFields(ctx context.Context) []Attr {
	if ctx == nil {
		return nil
	}
	var attrs []Attr
	if captureID, ok := services.CaptureIDFromContext(ctx); ok {
		attrs = append(attrs, String(FieldCaptureID, captureID))
	}
	if state, ok := services.StateFromContext(ctx); ok {
		attrs = append(attrs, String(FieldState, state))
	}
	if tracker, ok := services.TrackerFromContext(ctx); ok {
		attrs = append(attrs, String(FieldTracker, tracker))
	}
	return attrs
}

// WithContext returns a logger annotated with any capture metadata carried
// by ctx. The base logger is returned unchanged when nothing is attached.
func WithContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if base == nil {
		return NewNop()
	}
	attrs := ContextFields(ctx)
	if len(attrs) == 0 {
		return base
	}
	return base.With(Args(attrs...)...)
}
