package notificationinfra

import (
	"context"
	"fmt"
	"html"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/notification"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// MailSender is the part of the SendGrid client the notifier needs
type MailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridNotifier emails the applicant through SendGrid.
type SendGridNotifier struct {
	client    MailSender
	fromEmail string
	fromName  string
}

func NewSendGridNotifier(apiKey, fromEmail, fromName string) *SendGridNotifier {
	return NewSendGridNotifierWithClient(sendgrid.NewSendClient(apiKey), fromEmail, fromName)
}

func NewSendGridNotifierWithClient(client MailSender, fromEmail, fromName string) *SendGridNotifier {
	return &SendGridNotifier{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (n *SendGridNotifier) Notify(ctx context.Context, event notification.Event) error {
	if event.Recipient.IsEmpty() {
		return notification.ErrNoRecipient().WithDetail("application_id", event.ApplicationID.String())
	}

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail(event.ApplicantName, event.Recipient.String())
	htmlContent := fmt.Sprintf("<p>%s</p>", html.EscapeString(event.Message()))
	message := mail.NewSingleEmail(from, event.Title(), to, event.Message(), htmlContent)

	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return notification.ErrDeliveryFailed().WithCause(err)
	}
	if response.StatusCode >= 400 {
		return notification.ErrDeliveryFailed().
			WithDetail("status", response.StatusCode).
			WithCause(fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body))
	}
	return nil
}
