package notificationinfra

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() notification.Event {
	return notification.Event{
		Type:           notification.EventApplicationStatusChanged,
		ApplicationID:  "app-1",
		ApplicantID:    100,
		JobID:          200,
		Recipient:      "a@b.com",
		PreviousStatus: "PENDING",
		Status:         "ACCEPTED",
		OccurredAt:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestHTTPNotifier_Notify(t *testing.T) {
	received := make(chan notificationRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/notifications", r.URL.Path)

		var req notificationRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		received <- req
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewHTTPNotifier(srv.URL+"/", 2*time.Second)
	require.NoError(t, n.Notify(context.Background(), sampleEvent()))

	req := <-received
	assert.Equal(t, int64(100), req.UserID)
	assert.Equal(t, "a@b.com", req.Email)
	assert.Equal(t, "APPLICATION_STATUS_CHANGED", req.Type)
	assert.Equal(t, "app-1", req.RelatedEntityID)
	assert.Equal(t, "ACCEPTED", req.Status)
	assert.Equal(t, "PENDING", req.PreviousStatus)
}

func TestHTTPNotifier_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Notification service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewHTTPNotifier(srv.URL, time.Second).Notify(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.True(t, errx.HasCode(err, notification.CodeDeliveryFailed))
	assert.ErrorContains(t, err, "503")
}

func TestHTTPNotifier_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewHTTPNotifier("http://127.0.0.1:1", time.Second).Notify(ctx, sampleEvent())
	assert.True(t, errx.HasCode(err, notification.CodeDeliveryFailed))
}
