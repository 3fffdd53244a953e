package sagasrv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/internal/pdf"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/logx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/notification"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/saga"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/upload"
)

const (
	stepNotifyApplicant = "notify_applicant"
	stepInspectResume   = "inspect_resume"
)

// ResumeReader reads resumes held by the file store
type ResumeReader interface {
	Owns(ref string) bool
	ReadFile(ctx context.Context, ref string) ([]byte, *upload.StoredFile, error)
}

// Orchestrator runs the post-creation workflow of an application. Every
// step runs once; a failed step is reported but does not stop the others
// and is never retried.
type Orchestrator struct {
	applicationRepo application.Repository
	notifier        notification.Notifier
	resumes         ResumeReader
	inspect         func([]byte) (*pdf.Digest, error)
	now             func() time.Time
}

func NewOrchestrator(
	applicationRepo application.Repository,
	notifier notification.Notifier,
	resumes ResumeReader,
) *Orchestrator {
	return &Orchestrator{
		applicationRepo: applicationRepo,
		notifier:        notifier,
		resumes:         resumes,
		inspect:         pdf.Inspect,
		now:             time.Now,
	}
}

// Run dispatches a dequeued message to its workflow
func (o *Orchestrator) Run(ctx context.Context, msg saga.Message) error {
	switch msg.Kind {
	case saga.KindApplicationCreated:
		return o.OnApplicationCreated(ctx, msg.ApplicationID)
	default:
		return saga.ErrUnknownKind().
			WithDetail("kind", string(msg.Kind)).
			WithDetail("message_id", msg.ID.String())
	}
}

// OnApplicationCreated runs the workflow inline. It also lets the
// orchestrator act as a saga.Trigger when no queue is wanted.
func (o *Orchestrator) OnApplicationCreated(ctx context.Context, id kernel.ApplicationID) error {
	app, err := o.applicationRepo.GetByID(ctx, id)
	if err != nil {
		if errx.HasCode(err, application.CodeApplicationNotFound) {
			logx.WithFields(logx.Fields{"application_id": id.String()}).
				Info("Application deleted before its saga ran, nothing to do")
			return nil
		}
		return fmt.Errorf("load application %s: %w", id, err)
	}

	var errs []error
	if err := o.step(ctx, app, stepNotifyApplicant, o.notifyApplicant); err != nil {
		errs = append(errs, err)
	}
	if err := o.step(ctx, app, stepInspectResume, o.inspectResume); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (o *Orchestrator) step(
	ctx context.Context,
	app *application.Application,
	name string,
	fn func(context.Context, *application.Application) error,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			err = saga.ErrStepFailed().
				WithDetail("step", name).
				WithDetail("application_id", app.ID.String()).
				WithCause(err)
		}
	}()
	return fn(ctx, app)
}

func (o *Orchestrator) notifyApplicant(ctx context.Context, app *application.Application) error {
	if o.notifier == nil {
		return nil
	}
	return o.notifier.Notify(ctx, notification.NewApplicationReceived(app, o.now().UTC()))
}

func (o *Orchestrator) inspectResume(ctx context.Context, app *application.Application) error {
	ref := app.ResumeURL.String()
	if o.resumes == nil || !app.HasResume() || !o.resumes.Owns(ref) {
		return nil
	}
	if upload.Extension(ref) != "pdf" {
		return nil
	}

	data, _, err := o.resumes.ReadFile(ctx, ref)
	if err != nil {
		return err
	}

	digest, err := o.inspect(data)
	if err != nil {
		return err
	}

	logx.WithFields(logx.Fields{
		"application_id": app.ID.String(),
		"pages":          digest.Pages,
		"words":          digest.Words,
		"encrypted":      digest.Encrypted,
	}).Info("Resume inspected")
	return nil
}
