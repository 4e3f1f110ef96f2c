package logger

import (
	"log/slog"
	"net/url"
	"strings"
)

// Key fragments whose string values are replaced outright.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"cookie",
	"authorization",
	"api_key",
}

const redactedValue = "***REDACTED***"

func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if s == "" {
			return a
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if masked, ok := maskUserinfo(s); ok {
			return slog.String(a.Key, masked)
		}
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			out[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(out...)}
	}
	return a
}

// maskUserinfo hides credentials embedded in a URL, as in error-reporting
// DSNs of the form https://<key>@host/project.
func maskUserinfo(s string) (string, bool) {
	if !strings.Contains(s, "://") || !strings.Contains(s, "@") {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.User == nil {
		return "", false
	}
	u.User = nil
	scheme, rest, _ := strings.Cut(u.String(), "://")
	return scheme + "://***@" + rest, true
}

// IsSensitiveKey reports whether values logged under key are always redacted.
func IsSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, p := range sensitiveKeyPatterns {
		if strings.Contains(k, p) {
			return true
		}
	}
	return false
}

// RedactString masks URL credentials in value. Other values are returned
// unchanged.
func RedactString(value string) string {
	if masked, ok := maskUserinfo(value); ok {
		return masked
	}
	return value
}
