package application

import (
	"slices"
	"strings"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
)

// ApplicationStatus represents the status of an application
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "PENDING" // Initial submission
	ApplicationStatusReviewed    ApplicationStatus = "REVIEWED"
	ApplicationStatusShortlisted ApplicationStatus = "SHORTLISTED"
	ApplicationStatusAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected    ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn   ApplicationStatus = "WITHDRAWN" // Withdrawn by applicant
)

var allStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusShortlisted,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

// Statuses lists every valid status in workflow order
func Statuses() []ApplicationStatus {
	return slices.Clone(allStatuses)
}

func (s ApplicationStatus) IsValid() bool {
	return slices.Contains(allStatuses, s)
}

func (s ApplicationStatus) String() string {
	return string(s)
}

// ParseStatus accepts any letter case and surrounding whitespace
func ParseStatus(raw string) (ApplicationStatus, error) {
	s := ApplicationStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", ErrInvalidStatus().
			WithDetail("status", raw).
			WithDetail("allowed", allStatuses)
	}
	return s, nil
}

// ApplicantProfile is descriptive data copied from the applicant's profile
// and the job posting at the time of applying. None of it drives behavior.
type ApplicantProfile struct {
	CompanyName       kernel.CompanyName `json:"company_name,omitempty"`
	JobTitle          kernel.JobTitle    `json:"job_title,omitempty"`
	ApplicantName     string             `json:"applicant_name,omitempty"`
	ApplicantPhone    string             `json:"applicant_phone,omitempty"`
	Gender            string             `json:"gender,omitempty"`
	Nationality       string             `json:"nationality,omitempty"`
	CurrentLocation   string             `json:"current_location,omitempty"`
	YearsOfExperience *int               `json:"years_of_experience,omitempty"`
	CurrentCompany    string             `json:"current_company,omitempty"`
	Education         string             `json:"education,omitempty"`
	Skills            string             `json:"skills,omitempty"`
	LinkedInURL       string             `json:"linkedin_url,omitempty"`
	PortfolioURL      string             `json:"portfolio_url,omitempty"`
	ExpectedSalary    string             `json:"expected_salary,omitempty"`
	NoticePeriod      string             `json:"notice_period,omitempty"`
}

type Application struct {
	ID             kernel.ApplicationID `json:"id"`
	ApplicantID    kernel.ApplicantID   `json:"applicant_id"`
	ApplicantEmail kernel.Email         `json:"applicant_email"`
	JobID          kernel.JobID         `json:"job_id"`
	ResumeURL      kernel.ResumeURL     `json:"resume_url,omitempty"`
	CoverLetter    string               `json:"cover_letter,omitempty"`
	Profile        ApplicantProfile     `json:"profile"`
	Status         ApplicationStatus    `json:"status"`
	AppliedAt      time.Time            `json:"applied_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// Submit puts a new application into its initial state
func (a *Application) Submit(now time.Time) {
	a.Status = ApplicationStatusPending
	a.AppliedAt = now
	a.UpdatedAt = now
}

// UpdateStatus moves the application to newStatus. Every valid status is
// reachable from every other one.
func (a *Application) UpdateStatus(newStatus ApplicationStatus, now time.Time) error {
	if !newStatus.IsValid() {
		return ErrInvalidStatus().
			WithDetail("current_status", a.Status).
			WithDetail("new_status", newStatus)
	}

	a.Status = newStatus
	a.Touch(now)
	return nil
}

// Replace overwrites the descriptive payload, keeping identity, the
// applicant/job pair, status and AppliedAt
func (a *Application) Replace(email kernel.Email, resume kernel.ResumeURL, coverLetter string, profile ApplicantProfile, now time.Time) {
	a.ApplicantEmail = email
	a.ResumeURL = resume
	a.CoverLetter = coverLetter
	a.Profile = profile
	a.Touch(now)
}

// Touch stamps UpdatedAt without ever moving it backwards
func (a *Application) Touch(now time.Time) {
	if now.Before(a.UpdatedAt) {
		return
	}
	a.UpdatedAt = now
}

// HasResume checks if a resume reference is attached
func (a *Application) HasResume() bool {
	return !a.ResumeURL.IsEmpty()
}

// Clone returns a deep copy
func (a *Application) Clone() *Application {
	c := *a
	if a.Profile.YearsOfExperience != nil {
		y := *a.Profile.YearsOfExperience
		c.Profile.YearsOfExperience = &y
	}
	return &c
}
