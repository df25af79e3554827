package gcp

import (
	"cloud.google.com/go/logging"

	"github.com/andywolf/envsync/internal/redact"
)

// SecureAuditLogger wraps an AuditLogger with automatic redaction of every
// message and label, so nothing secret-shaped reaches Cloud Logging even
// if a caller hands over raw values.
type SecureAuditLogger struct {
	inner AuditLogger
}

// NewSecureAuditLogger wraps inner with redaction.
func NewSecureAuditLogger(inner AuditLogger) *SecureAuditLogger {
	return &SecureAuditLogger{inner: inner}
}

// Event redacts the message and every label key and value.
func (l *SecureAuditLogger) Event(severity logging.Severity, message string, labels map[string]string) {
	scrubbed := make(map[string]string, len(labels))
	for k, v := range labels {
		if redact.IsSecretKey(k) && !redact.IsWhitelisted(k) {
			scrubbed[redact.Text(k)] = redact.Placeholder
			continue
		}
		scrubbed[redact.Text(k)] = redact.Text(v)
	}
	l.inner.Event(severity, redact.Text(message), scrubbed)
}

// Flush delegates to the wrapped logger.
func (l *SecureAuditLogger) Flush() error {
	return l.inner.Flush()
}

// Close delegates to the wrapped logger.
func (l *SecureAuditLogger) Close() error {
	return l.inner.Close()
}

var _ AuditLogger = (*SecureAuditLogger)(nil)
