package applicationinfra

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application"
)

type applicantJob struct {
	applicant kernel.ApplicantID
	job       kernel.JobID
}

// MemoryApplicationRepository keeps applications in process memory. It
// enforces the same (applicant, job) uniqueness as the database schema.
type MemoryApplicationRepository struct {
	mu    sync.RWMutex
	byID  map[kernel.ApplicationID]*application.Application
	pairs map[applicantJob]kernel.ApplicationID
	order []kernel.ApplicationID
}

var _ application.Repository = (*MemoryApplicationRepository)(nil)

func NewMemoryApplicationRepository() *MemoryApplicationRepository {
	return &MemoryApplicationRepository{
		byID:  make(map[kernel.ApplicationID]*application.Application),
		pairs: make(map[applicantJob]kernel.ApplicationID),
	}
}

func (r *MemoryApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[app.ID]; exists {
		return fmt.Errorf("failed to create application: id %s already used", app.ID)
	}

	key := applicantJob{app.ApplicantID, app.JobID}
	if _, exists := r.pairs[key]; exists {
		return application.ErrApplicationAlreadyExists().
			WithDetail("applicant_id", app.ApplicantID.String()).
			WithDetail("job_id", app.JobID.String()).
			WithDetail("constraint", uniqueApplicantJobConstraint)
	}

	r.byID[app.ID] = app.Clone()
	r.pairs[key] = app.ID
	r.order = append(r.order, app.ID)
	return nil
}

func (r *MemoryApplicationRepository) Update(ctx context.Context, app *application.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[app.ID]
	if !ok {
		return application.ErrApplicationNotFound().WithDetail("application_id", app.ID.String())
	}

	oldKey := applicantJob{current.ApplicantID, current.JobID}
	newKey := applicantJob{app.ApplicantID, app.JobID}
	if oldKey != newKey {
		if _, taken := r.pairs[newKey]; taken {
			return application.ErrApplicationAlreadyExists().
				WithDetail("applicant_id", app.ApplicantID.String()).
				WithDetail("job_id", app.JobID.String())
		}
		delete(r.pairs, oldKey)
		r.pairs[newKey] = app.ID
	}

	r.byID[app.ID] = app.Clone()
	return nil
}

func (r *MemoryApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	app, ok := r.byID[id]
	if !ok {
		return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}
	return app.Clone(), nil
}

func (r *MemoryApplicationRepository) GetByApplicantAndJob(ctx context.Context, applicantID kernel.ApplicantID, jobID kernel.JobID) (*application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.pairs[applicantJob{applicantID, jobID}]
	if !ok {
		return nil, application.ErrApplicationNotFound().
			WithDetail("applicant_id", applicantID.String()).
			WithDetail("job_id", jobID.String())
	}
	return r.byID[id].Clone(), nil
}

func (r *MemoryApplicationRepository) Delete(ctx context.Context, id kernel.ApplicationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	app, ok := r.byID[id]
	if !ok {
		return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}

	delete(r.pairs, applicantJob{app.ApplicantID, app.JobID})
	delete(r.byID, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return nil
}

func (r *MemoryApplicationRepository) List(ctx context.Context) ([]application.Application, error) {
	return r.filter(func(*application.Application) bool { return true }), nil
}

func (r *MemoryApplicationRepository) ListByApplicantID(ctx context.Context, applicantID kernel.ApplicantID) ([]application.Application, error) {
	return r.filter(func(a *application.Application) bool { return a.ApplicantID == applicantID }), nil
}

func (r *MemoryApplicationRepository) ListByJobID(ctx context.Context, jobID kernel.JobID) ([]application.Application, error) {
	return r.filter(func(a *application.Application) bool { return a.JobID == jobID }), nil
}

func (r *MemoryApplicationRepository) filter(keep func(*application.Application) bool) []application.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]application.Application, 0)
	for _, id := range r.order {
		if app := r.byID[id]; keep(app) {
			out = append(out, *app.Clone())
		}
	}
	return out
}
