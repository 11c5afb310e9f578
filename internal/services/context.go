package services

import "context"

type contextKey string

const (
	captureIDKey contextKey = "capture_id"
	stateKey     contextKey = "state"
	trackerKey   contextKey = "tracker"
)

// WithCaptureID annotates context with the capture correlation identifier.
func WithCaptureID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, captureIDKey, id)
}

// CaptureIDFromContext extracts the capture identifier if present.
func CaptureIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(captureIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithState annotates context with the pipeline state name.
func WithState(ctx context.Context, state string) context.Context {
	if state == "" {
		return ctx
	}
	return context.WithValue(ctx, stateKey, state)
}

// StateFromContext returns the pipeline state name if present.
func StateFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stateKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTracker annotates context with the tracker tag a write targets.
func WithTracker(ctx context.Context, tag string) context.Context {
	if tag == "" {
		return ctx
	}
	return context.WithValue(ctx, trackerKey, tag)
}

// TrackerFromContext returns the tracker tag if present.
func TrackerFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(trackerKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
