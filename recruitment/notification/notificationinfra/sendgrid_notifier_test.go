package notificationinfra

import (
	"context"
	"errors"
	"testing"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/notification"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockMailSender struct {
	mock.Mock
}

func (m *mockMailSender) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rest.Response), args.Error(1)
}

func TestSendGridNotifier_Notify(t *testing.T) {
	sender := new(mockMailSender)
	n := NewSendGridNotifierWithClient(sender, "noreply@revjobs.com", "RevJobs")
	event := sampleEvent()

	sender.On("SendWithContext", mock.Anything, mock.MatchedBy(func(m *mail.SGMailV3) bool {
		return m.From.Address == "noreply@revjobs.com" &&
			m.Subject == "Application status updated" &&
			len(m.Personalizations) == 1 &&
			m.Personalizations[0].To[0].Address == "a@b.com"
	})).Return(&rest.Response{StatusCode: 202}, nil).Once()

	assert.NoError(t, n.Notify(context.Background(), event))
	sender.AssertExpectations(t)
}

func TestSendGridNotifier_Failures(t *testing.T) {
	t.Run("RejectedByProvider", func(t *testing.T) {
		sender := new(mockMailSender)
		sender.On("SendWithContext", mock.Anything, mock.Anything).
			Return(&rest.Response{StatusCode: 401, Body: "unauthorized"}, nil)

		err := NewSendGridNotifierWithClient(sender, "x@y.com", "").Notify(context.Background(), sampleEvent())
		assert.True(t, errx.HasCode(err, notification.CodeDeliveryFailed))
	})

	t.Run("TransportError", func(t *testing.T) {
		sender := new(mockMailSender)
		sender.On("SendWithContext", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: timeout"))

		err := NewSendGridNotifierWithClient(sender, "x@y.com", "").Notify(context.Background(), sampleEvent())
		assert.True(t, errx.HasCode(err, notification.CodeDeliveryFailed))
	})

	t.Run("NoRecipient", func(t *testing.T) {
		sender := new(mockMailSender)
		event := sampleEvent()
		event.Recipient = ""

		err := NewSendGridNotifierWithClient(sender, "x@y.com", "").Notify(context.Background(), event)
		assert.True(t, errx.HasCode(err, notification.CodeNoRecipient))
		sender.AssertNotCalled(t, "SendWithContext", mock.Anything, mock.Anything)
	})
}
