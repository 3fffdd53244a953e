package application

import (
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
)

// CreateApplicationRequest - DTO for submitting a new application
type CreateApplicationRequest struct {
	ApplicantID    kernel.ApplicantID `json:"applicant_id" validate:"required,gt=0"`
	ApplicantEmail kernel.Email       `json:"applicant_email" validate:"required,email"`
	JobID          kernel.JobID       `json:"job_id" validate:"required,gt=0"`
	ResumeURL      kernel.ResumeURL   `json:"resume_url,omitempty" validate:"max=2048"`
	CoverLetter    string             `json:"cover_letter,omitempty" validate:"max=10000"`
	Profile        ApplicantProfile   `json:"profile"`

	// Status is accepted for compatibility and ignored: new applications are always PENDING
	Status ApplicationStatus `json:"status,omitempty"`
}

// UpdateApplicationRequest - DTO for replacing the descriptive part of an application
type UpdateApplicationRequest struct {
	ApplicantEmail kernel.Email     `json:"applicant_email" validate:"required,email"`
	ResumeURL      kernel.ResumeURL `json:"resume_url,omitempty" validate:"max=2048"`
	CoverLetter    string           `json:"cover_letter,omitempty" validate:"max=10000"`
	Profile        ApplicantProfile `json:"profile"`
}

// UpdateStatusRequest - DTO for a status change
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ApplicationListResponse - DTO for list endpoints
type ApplicationListResponse struct {
	Items []Application `json:"items"`
	Total int           `json:"total"`
}

func NewApplicationListResponse(items []Application) ApplicationListResponse {
	if items == nil {
		items = []Application{}
	}
	return ApplicationListResponse{Items: items, Total: len(items)}
}
