package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/logging"
	"google.golang.org/api/option"

	"github.com/andywolf/envsync/internal/version"
)

// AuditLogger records sync-run events somewhere durable. Implementations
// must never emit an unredacted payload.
type AuditLogger interface {
	Event(severity logging.Severity, message string, labels map[string]string)
	Flush() error
	Close() error
}

// CloudAuditLogger writes audit events for sync runs to GCP Cloud Logging.
type CloudAuditLogger struct {
	client *logging.Client
	logger *logging.Logger
	runID  string
}

// logName is the Cloud Logging log all envsync audit events go to.
const logName = "envsync-audit"

// NewCloudAuditLogger creates an audit logger for the given project and
// run.
func NewCloudAuditLogger(ctx context.Context, projectID, runID string, opts ...option.ClientOption) (*CloudAuditLogger, error) {
	opts = append([]option.ClientOption{option.WithUserAgent(version.UserAgent())}, opts...)
	client, err := logging.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud logging client: %w", err)
	}

	return &CloudAuditLogger{
		client: client,
		logger: client.Logger(logName),
		runID:  runID,
	}, nil
}

// Event writes one audit entry.
func (l *CloudAuditLogger) Event(severity logging.Severity, message string, labels map[string]string) {
	merged := map[string]string{"run_id": l.runID}
	for k, v := range labels {
		merged[k] = v
	}
	l.logger.Log(logging.Entry{
		Severity: severity,
		Payload:  message,
		Labels:   merged,
	})
}

// Flush sends any buffered entries.
func (l *CloudAuditLogger) Flush() error {
	return l.logger.Flush()
}

// Close flushes and releases the client.
func (l *CloudAuditLogger) Close() error {
	return l.client.Close()
}

// NopAuditLogger discards all events. Used when auditing is not
// configured.
type NopAuditLogger struct{}

func (NopAuditLogger) Event(logging.Severity, string, map[string]string) {}
func (NopAuditLogger) Flush() error                                     { return nil }
func (NopAuditLogger) Close() error                                     { return nil }

var (
	_ AuditLogger = (*CloudAuditLogger)(nil)
	_ AuditLogger = NopAuditLogger{}
)
