package notificationinfra

import (
	"context"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/logx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/notification"
)

// LogNotifier writes notifications to the application log instead of
// delivering them. Used in development and when no provider is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, event notification.Event) error {
	logx.WithFields(logx.Fields{
		"event":          string(event.Type),
		"application_id": event.ApplicationID.String(),
		"recipient":      event.Recipient.String(),
		"status":         event.Status,
	}).Infof("%s: %s", event.Title(), event.Message())
	return nil
}
