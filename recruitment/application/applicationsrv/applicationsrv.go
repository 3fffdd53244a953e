package applicationsrv

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/logx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/notification"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/saga"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultNotifyTimeout = 5 * time.Second
	defaultSagaTimeout   = 30 * time.Second
)

// ApplicationService provides business operations for applications
type ApplicationService struct {
	applicationRepo application.Repository
	sagaTrigger     saga.Trigger
	notifier        notification.Notifier
	validate        *validator.Validate
	notifyTimeout   time.Duration
	sagaTimeout     time.Duration
	now             func() time.Time
	dispatches      sync.WaitGroup
}

type Option func(*ApplicationService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *ApplicationService) { s.now = now }
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(s *ApplicationService) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

func WithSagaTimeout(d time.Duration) Option {
	return func(s *ApplicationService) {
		if d > 0 {
			s.sagaTimeout = d
		}
	}
}

// NewApplicationService creates a new instance of the application service
func NewApplicationService(
	applicationRepo application.Repository,
	sagaTrigger saga.Trigger,
	notifier notification.Notifier,
	opts ...Option,
) *ApplicationService {
	s := &ApplicationService{
		applicationRepo: applicationRepo,
		sagaTrigger:     sagaTrigger,
		notifier:        notifier,
		validate:        validator.New(),
		notifyTimeout:   defaultNotifyTimeout,
		sagaTimeout:     defaultSagaTimeout,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateApplication submits a new application. The saga is started in the
// background once the application is stored; its outcome never reaches the
// caller.
func (s *ApplicationService) CreateApplication(ctx context.Context, req application.CreateApplicationRequest) (*application.Application, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// Business rule: one application per applicant and job
	_, err := s.applicationRepo.GetByApplicantAndJob(ctx, req.ApplicantID, req.JobID)
	switch {
	case err == nil:
		return nil, application.ErrApplicationAlreadyExists().
			WithDetail("applicant_id", req.ApplicantID.Int64()).
			WithDetail("job_id", req.JobID.Int64())
	case !errx.HasCode(err, application.CodeApplicationNotFound):
		return nil, repoError(err, "failed to check duplicate application")
	}

	now := s.now().UTC()
	app := &application.Application{
		ID:             kernel.NewApplicationID(uuid.NewString()),
		ApplicantID:    req.ApplicantID,
		ApplicantEmail: kernel.NewEmail(req.ApplicantEmail.String()),
		JobID:          req.JobID,
		ResumeURL:      req.ResumeURL,
		CoverLetter:    req.CoverLetter,
		Profile:        req.Profile,
	}
	app.Submit(now)

	if err := s.applicationRepo.Create(ctx, app); err != nil {
		return nil, repoError(err, "failed to create application")
	}

	logx.WithFields(logx.Fields{
		"application_id": app.ID.String(),
		"applicant_id":   app.ApplicantID.Int64(),
		"job_id":         app.JobID.Int64(),
	}).Info("Application submitted")

	s.startSaga(ctx, app.ID)
	return app, nil
}

// GetApplicationByID retrieves an application by ID
func (s *ApplicationService) GetApplicationByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "failed to get application")
	}
	return app, nil
}

func (s *ApplicationService) ListApplications(ctx context.Context) ([]application.Application, error) {
	apps, err := s.applicationRepo.List(ctx)
	if err != nil {
		return nil, repoError(err, "failed to list applications")
	}
	return apps, nil
}

func (s *ApplicationService) ListApplicationsByApplicant(ctx context.Context, applicantID kernel.ApplicantID) ([]application.Application, error) {
	apps, err := s.applicationRepo.ListByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, repoError(err, "failed to list applications by applicant")
	}
	return apps, nil
}

func (s *ApplicationService) ListApplicationsByJob(ctx context.Context, jobID kernel.JobID) ([]application.Application, error) {
	apps, err := s.applicationRepo.ListByJobID(ctx, jobID)
	if err != nil {
		return nil, repoError(err, "failed to list applications by job")
	}
	return apps, nil
}

// UpdateApplication replaces the descriptive payload of an application
func (s *ApplicationService) UpdateApplication(ctx context.Context, id kernel.ApplicationID, req application.UpdateApplicationRequest) (*application.Application, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "failed to get application")
	}

	app.Replace(kernel.NewEmail(req.ApplicantEmail.String()), req.ResumeURL, req.CoverLetter, req.Profile, s.now().UTC())

	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, repoError(err, "failed to update application")
	}
	return app, nil
}

// UpdateApplicationStatus stores the new status and only then tells the
// applicant. A failed notification is logged and otherwise ignored.
func (s *ApplicationService) UpdateApplicationStatus(ctx context.Context, id kernel.ApplicationID, rawStatus string) (*application.Application, error) {
	status, err := application.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "failed to get application")
	}

	previous := app.Status
	if err := app.UpdateStatus(status, s.now().UTC()); err != nil {
		return nil, err
	}

	if err := s.applicationRepo.Update(ctx, app); err != nil {
		return nil, repoError(err, "failed to update application status")
	}

	logx.WithFields(logx.Fields{
		"application_id":  app.ID.String(),
		"previous_status": previous.String(),
		"status":          app.Status.String(),
	}).Info("Application status updated")

	s.notifyStatusChange(ctx, app, previous)
	return app, nil
}

// DeleteApplication hard-deletes an application. The stored resume is left
// alone since other applications may reference the same file.
func (s *ApplicationService) DeleteApplication(ctx context.Context, id kernel.ApplicationID) error {
	if _, err := s.applicationRepo.GetByID(ctx, id); err != nil {
		return repoError(err, "failed to get application")
	}

	if err := s.applicationRepo.Delete(ctx, id); err != nil {
		return repoError(err, "failed to delete application")
	}

	logx.WithFields(logx.Fields{"application_id": id.String()}).Info("Application deleted")
	return nil
}

// WaitForDispatches blocks until every saga dispatch started by
// CreateApplication has returned
func (s *ApplicationService) WaitForDispatches() {
	s.dispatches.Wait()
}

func (s *ApplicationService) startSaga(ctx context.Context, id kernel.ApplicationID) {
	if s.sagaTrigger == nil {
		return
	}

	s.dispatches.Add(1)
	go func() {
		defer s.dispatches.Done()

		sagaCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sagaTimeout)
		defer cancel()

		entry := logx.WithFields(logx.Fields{
			"application_id": id.String(),
			"event":          string(saga.KindApplicationCreated),
		})
		defer func() {
			if r := recover(); r != nil {
				entry.Warnf("Saga trigger panicked: %v", r)
			}
		}()

		if err := s.sagaTrigger.OnApplicationCreated(sagaCtx, id); err != nil {
			entry.WithError(err).Warn("Failed to start application saga")
		}
	}()
}

func (s *ApplicationService) notifyStatusChange(ctx context.Context, app *application.Application, previous application.ApplicationStatus) {
	if s.notifier == nil {
		return
	}

	event := notification.NewStatusChanged(app, previous, s.now().UTC())
	entry := logx.WithFields(logx.Fields{
		"application_id": app.ID.String(),
		"event":          string(event.Type),
	})

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			entry.Warnf("Status change notifier panicked: %v", r)
		}
	}()

	if err := s.notifier.Notify(notifyCtx, event); err != nil {
		entry.WithError(err).Warn("Failed to send status change notification")
	}
}

func (s *ApplicationService) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return application.ErrInvalidRequest().WithCause(err)
	}

	fields := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			fields[fe.Field()] = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
			continue
		}
		fields[fe.Field()] = fe.Tag()
	}
	return application.ErrValidationFailed().WithDetails(fields)
}

// repoError passes classified repository errors through and wraps the rest
func repoError(err error, msg string) error {
	if _, ok := errx.As(err); ok {
		return err
	}
	return errx.Wrap(err, msg, errx.TypeInternal)
}
