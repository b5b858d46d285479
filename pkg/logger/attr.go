package logger

import "log/slog"

// Error records a single error under the key "error". A nil error yields an
// empty attribute which slog drops silently.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Email records a recipient address under the key "email".
func Email(addr string) slog.Attr {
	return slog.String("email", addr)
}

// MessageID records a provider message identifier under the key "message_id".
func MessageID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("message_id", id)
}
