package applicationinfra

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueApplicantJobConstraint = "uk_applicant_job"

// PostgresApplicationRepository implements application.Repository using PostgreSQL
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

var _ application.Repository = (*PostgresApplicationRepository)(nil)

// NewPostgresApplicationRepository creates a new PostgreSQL application repository
func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{
		db: db,
	}
}

// ============================================================================
// Database Models
// ============================================================================

type applicationModel struct {
	ID             string        `db:"id"`
	ApplicantID    int64         `db:"applicant_id"`
	ApplicantEmail string        `db:"applicant_email"`
	JobID          int64         `db:"job_id"`
	ResumeURL      string        `db:"resume_url"`
	CoverLetter    string        `db:"cover_letter"`
	Profile        profileColumn `db:"profile"`
	Status         string        `db:"status"`
	AppliedAt      time.Time     `db:"applied_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

// profileColumn stores the applicant profile as JSONB
type profileColumn application.ApplicantProfile

func (p profileColumn) Value() (driver.Value, error) {
	return json.Marshal(application.ApplicantProfile(p))
}

func (p *profileColumn) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*p = profileColumn{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported profile column type %T", src)
	}

	var profile application.ApplicantProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("decode profile column: %w", err)
	}
	*p = profileColumn(profile)
	return nil
}

// toEntity converts database model to domain entity
func (m *applicationModel) toEntity() *application.Application {
	return &application.Application{
		ID:             kernel.ApplicationID(m.ID),
		ApplicantID:    kernel.ApplicantID(m.ApplicantID),
		ApplicantEmail: kernel.Email(m.ApplicantEmail),
		JobID:          kernel.JobID(m.JobID),
		ResumeURL:      kernel.ResumeURL(m.ResumeURL),
		CoverLetter:    m.CoverLetter,
		Profile:        application.ApplicantProfile(m.Profile),
		Status:         application.ApplicationStatus(m.Status),
		AppliedAt:      m.AppliedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// fromEntity converts domain entity to database model
func fromEntity(app *application.Application) *applicationModel {
	return &applicationModel{
		ID:             app.ID.String(),
		ApplicantID:    app.ApplicantID.Int64(),
		ApplicantEmail: app.ApplicantEmail.String(),
		JobID:          app.JobID.Int64(),
		ResumeURL:      app.ResumeURL.String(),
		CoverLetter:    app.CoverLetter,
		Profile:        profileColumn(app.Profile),
		Status:         app.Status.String(),
		AppliedAt:      app.AppliedAt,
		UpdatedAt:      app.UpdatedAt,
	}
}

const selectColumns = `
	id, applicant_id, applicant_email, job_id, resume_url,
	cover_letter, profile, status, applied_at, updated_at`

// ============================================================================
// Repository Implementation
// ============================================================================

// Create creates a new application
func (r *PostgresApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	query := `
		INSERT INTO applications (
			id, applicant_id, applicant_email, job_id, resume_url,
			cover_letter, profile, status, applied_at, updated_at
		) VALUES (
			:id, :applicant_id, :applicant_email, :job_id, :resume_url,
			:cover_letter, :profile, :status, :applied_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, fromEntity(app))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return application.ErrApplicationAlreadyExists().
				WithDetail("applicant_id", app.ApplicantID.String()).
				WithDetail("job_id", app.JobID.String()).
				WithDetail("constraint", pqErr.Constraint)
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// Update updates an existing application
func (r *PostgresApplicationRepository) Update(ctx context.Context, app *application.Application) error {
	query := `
		UPDATE applications SET
			applicant_email = :applicant_email,
			resume_url = :resume_url,
			cover_letter = :cover_letter,
			profile = :profile,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, fromEntity(app))
	if err != nil {
		return fmt.Errorf("failed to update application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return application.ErrApplicationNotFound().WithDetail("application_id", app.ID.String())
	}

	return nil
}

// GetByID retrieves an application by ID
func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	query := `SELECT ` + selectColumns + ` FROM applications WHERE id = $1`

	var model applicationModel
	err := r.db.GetContext(ctx, &model, query, id.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
		}
		return nil, fmt.Errorf("failed to get application by id: %w", err)
	}

	return model.toEntity(), nil
}

// GetByApplicantAndJob retrieves the application an applicant made for a job
func (r *PostgresApplicationRepository) GetByApplicantAndJob(ctx context.Context, applicantID kernel.ApplicantID, jobID kernel.JobID) (*application.Application, error) {
	query := `SELECT ` + selectColumns + ` FROM applications WHERE applicant_id = $1 AND job_id = $2`

	var model applicationModel
	err := r.db.GetContext(ctx, &model, query, applicantID.Int64(), jobID.Int64())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound().
				WithDetail("applicant_id", applicantID.String()).
				WithDetail("job_id", jobID.String())
		}
		return nil, fmt.Errorf("failed to get application by applicant and job: %w", err)
	}

	return model.toEntity(), nil
}

// Delete deletes an application by ID
func (r *PostgresApplicationRepository) Delete(ctx context.Context, id kernel.ApplicationID) error {
	query := `DELETE FROM applications WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}

	return nil
}

// List retrieves all applications in insertion order
func (r *PostgresApplicationRepository) List(ctx context.Context) ([]application.Application, error) {
	query := `SELECT ` + selectColumns + ` FROM applications ORDER BY seq`
	return r.selectApplications(ctx, "list applications", query)
}

// ListByApplicantID retrieves applications made by an applicant
func (r *PostgresApplicationRepository) ListByApplicantID(ctx context.Context, applicantID kernel.ApplicantID) ([]application.Application, error) {
	query := `SELECT ` + selectColumns + ` FROM applications WHERE applicant_id = $1 ORDER BY seq`
	return r.selectApplications(ctx, "list applications by applicant", query, applicantID.Int64())
}

// ListByJobID retrieves applications made for a job
func (r *PostgresApplicationRepository) ListByJobID(ctx context.Context, jobID kernel.JobID) ([]application.Application, error) {
	query := `SELECT ` + selectColumns + ` FROM applications WHERE job_id = $1 ORDER BY seq`
	return r.selectApplications(ctx, "list applications by job", query, jobID.Int64())
}

func (r *PostgresApplicationRepository) selectApplications(ctx context.Context, op, query string, args ...any) ([]application.Application, error) {
	var models []applicationModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	entities := make([]application.Application, 0, len(models))
	for _, model := range models {
		entities = append(entities, *model.toEntity())
	}

	return entities, nil
}
