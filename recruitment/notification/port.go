package notification

import "context"

// Notifier delivers a best-effort message about an application. A failed
// delivery must never affect the state change that caused it.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}
