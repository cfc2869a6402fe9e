package notify

import "context"

// Notifier alerts staff about feedback that needs immediate triage.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}
