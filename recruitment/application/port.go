package application

import (
	"context"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
)

// Repository persists applications. Implementations enforce uniqueness of
// the (applicant, job) pair on their own and report a violation as
// ErrApplicationAlreadyExists. Lists come back in insertion order.
type Repository interface {
	// Create inserts a new application
	Create(ctx context.Context, application *Application) error

	// Update overwrites an existing application
	Update(ctx context.Context, application *Application) error

	// GetByID retrieves an application by ID
	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	// GetByApplicantAndJob retrieves the application an applicant made for a job
	GetByApplicantAndJob(ctx context.Context, applicantID kernel.ApplicantID, jobID kernel.JobID) (*Application, error)

	// Delete removes an application by ID
	Delete(ctx context.Context, id kernel.ApplicationID) error

	// List retrieves all applications
	List(ctx context.Context) ([]Application, error)

	// ListByApplicantID retrieves applications made by an applicant
	ListByApplicantID(ctx context.Context, applicantID kernel.ApplicantID) ([]Application, error)

	// ListByJobID retrieves applications made for a job
	ListByJobID(ctx context.Context, jobID kernel.JobID) ([]Application, error)
}
