package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Attribute names that carry stored payloads. Their contents are replaced
// with a length summary so user data never reaches the log.
var payloadKeys = map[string]struct{}{
	"value":   {},
	"body":    {},
	"payload": {},
}

// Key name fragments that mark secrets.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"bearer",
}

// redactedValue is the placeholder for redacted secrets.
const redactedValue = "***REDACTED***"

// redactSensitive is installed as the handler's ReplaceAttr hook.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}

	if IsPayloadKey(a.Key) {
		return slog.String(a.Key, summarize(a.Value))
	}

	if a.Value.Kind() == slog.KindString && a.Value.String() != "" && IsSensitiveKey(a.Key) {
		return slog.String(a.Key, redactedValue)
	}
	return a
}

// summarize replaces a payload with its size.
func summarize(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return "<" + strconv.Itoa(len(v.String())) + " bytes>"
	case slog.KindAny:
		if b, ok := v.Any().([]byte); ok {
			return "<" + strconv.Itoa(len(b)) + " bytes>"
		}
	}
	return redactedValue
}

// RedactValue returns the log-safe form of a stored value.
func RedactValue(value []byte) string {
	return summarize(slog.AnyValue(value))
}

// IsPayloadKey reports whether an attribute name carries a stored payload.
func IsPayloadKey(key string) bool {
	_, ok := payloadKeys[strings.ToLower(key)]
	return ok
}

// IsSensitiveKey checks if a key name suggests secret content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
