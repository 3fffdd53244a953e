package notificationinfra

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/notification"
	"github.com/gofiber/fiber/v2"
)

const notificationsPath = "/api/notifications"

// HTTPNotifier posts events to the platform's notification service.
type HTTPNotifier struct {
	endpoint string
	timeout  time.Duration
}

func NewHTTPNotifier(serviceURL string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		endpoint: strings.TrimRight(serviceURL, "/") + notificationsPath,
		timeout:  timeout,
	}
}

type notificationRequest struct {
	UserID          int64     `json:"userId"`
	Email           string    `json:"email"`
	Type            string    `json:"type"`
	Title           string    `json:"title"`
	Message         string    `json:"message"`
	RelatedEntityID string    `json:"relatedEntityId"`
	JobID           int64     `json:"jobId"`
	Status          string    `json:"status"`
	PreviousStatus  string    `json:"previousStatus,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

func toRequest(e notification.Event) notificationRequest {
	return notificationRequest{
		UserID:          e.ApplicantID.Int64(),
		Email:           e.Recipient.String(),
		Type:            string(e.Type),
		Title:           e.Title(),
		Message:         e.Message(),
		RelatedEntityID: e.ApplicationID.String(),
		JobID:           e.JobID.Int64(),
		Status:          e.Status,
		PreviousStatus:  e.PreviousStatus,
		OccurredAt:      e.OccurredAt,
	}
}

func (n *HTTPNotifier) Notify(ctx context.Context, event notification.Event) error {
	if err := ctx.Err(); err != nil {
		return notification.ErrDeliveryFailed().WithCause(err)
	}

	timeout := n.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(n.endpoint).JSON(toRequest(event))
	if timeout > 0 {
		agent.Timeout(timeout)
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return notification.ErrDeliveryFailed().
			WithDetail("endpoint", n.endpoint).
			WithCause(errors.Join(errs...))
	}
	if code >= fiber.StatusBadRequest {
		return notification.ErrDeliveryFailed().
			WithDetail("endpoint", n.endpoint).
			WithDetail("status", code).
			WithCause(fmt.Errorf("notification service responded %d: %s", code, body))
	}
	return nil
}
