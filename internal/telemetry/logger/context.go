package logger

import "context"

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	connKey
)

// WithLogger stores l on ctx.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored on ctx, or Default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// WithRequestID tags ctx with an HTTP request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the HTTP request ID on ctx, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithConn tags ctx with the remote address of a RESP connection.
func WithConn(ctx context.Context, remote string) context.Context {
	return context.WithValue(ctx, connKey, remote)
}

// ConnFromContext returns the RESP remote address on ctx, if any.
func ConnFromContext(ctx context.Context) string {
	remote, _ := ctx.Value(connKey).(string)
	return remote
}

// L returns the logger for ctx with request_id and conn attached when set.
// Service code calls it so transport identifiers reach every log line.
func L(ctx context.Context) Logger {
	l := FromContext(ctx)
	if id := RequestIDFromContext(ctx); id != "" {
		l = l.With("request_id", id)
	}
	if remote := ConnFromContext(ctx); remote != "" {
		l = l.With("conn", remote)
	}
	return l
}
