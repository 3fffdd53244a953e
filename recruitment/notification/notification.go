package notification

import (
	"fmt"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application"
)

type EventType string

const (
	EventApplicationReceived      EventType = "APPLICATION_RECEIVED"
	EventApplicationStatusChanged EventType = "APPLICATION_STATUS_CHANGED"
)

type Event struct {
	Type           EventType            `json:"type"`
	ApplicationID  kernel.ApplicationID `json:"application_id"`
	ApplicantID    kernel.ApplicantID   `json:"applicant_id"`
	JobID          kernel.JobID         `json:"job_id"`
	Recipient      kernel.Email         `json:"recipient"`
	ApplicantName  string               `json:"applicant_name,omitempty"`
	JobTitle       kernel.JobTitle      `json:"job_title,omitempty"`
	CompanyName    kernel.CompanyName   `json:"company_name,omitempty"`
	PreviousStatus string               `json:"previous_status,omitempty"`
	Status         string               `json:"status"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

func newEvent(t EventType, app *application.Application, at time.Time) Event {
	return Event{
		Type:          t,
		ApplicationID: app.ID,
		ApplicantID:   app.ApplicantID,
		JobID:         app.JobID,
		Recipient:     app.ApplicantEmail,
		ApplicantName: app.Profile.ApplicantName,
		JobTitle:      app.Profile.JobTitle,
		CompanyName:   app.Profile.CompanyName,
		Status:        app.Status.String(),
		OccurredAt:    at,
	}
}

// NewApplicationReceived confirms a submission to the applicant
func NewApplicationReceived(app *application.Application, at time.Time) Event {
	return newEvent(EventApplicationReceived, app, at)
}

// NewStatusChanged tells the applicant their application moved to a new status
func NewStatusChanged(app *application.Application, previous application.ApplicationStatus, at time.Time) Event {
	e := newEvent(EventApplicationStatusChanged, app, at)
	e.PreviousStatus = previous.String()
	return e
}

func (e Event) position() string {
	switch {
	case e.JobTitle != "" && e.CompanyName != "":
		return fmt.Sprintf("%s at %s", e.JobTitle, e.CompanyName)
	case e.JobTitle != "":
		return string(e.JobTitle)
	default:
		return "job #" + e.JobID.String()
	}
}

// Title is a one-line subject for the event
func (e Event) Title() string {
	switch e.Type {
	case EventApplicationReceived:
		return "Application received"
	case EventApplicationStatusChanged:
		return "Application status updated"
	default:
		return "Application update"
	}
}

// Message is the human-readable body for the event
func (e Event) Message() string {
	switch e.Type {
	case EventApplicationReceived:
		return fmt.Sprintf("Your application for %s has been received.", e.position())
	case EventApplicationStatusChanged:
		return fmt.Sprintf("Your application for %s is now %s.", e.position(), e.Status)
	default:
		return fmt.Sprintf("Your application for %s was updated.", e.position())
	}
}
