package service

import "context"

// Notifier delivers outbound messages. Workflow transitions dispatch
// these fire-and-forget; delivery failures are logged, never surfaced.
type Notifier interface {
	SendEmail(ctx context.Context, to, subject, message string) error
	SendSMS(ctx context.Context, to, message string) error
}
