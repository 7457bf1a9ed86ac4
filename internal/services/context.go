package services

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	songKey      contextKey = "song"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSong annotates context with the "title - artist" label being looked up.
func WithSong(ctx context.Context, label string) context.Context {
	if label == "" {
		return ctx
	}
	return context.WithValue(ctx, songKey, label)
}

// SongFromContext returns the song label if present.
func SongFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(songKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
