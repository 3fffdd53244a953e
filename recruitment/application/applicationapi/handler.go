package applicationapi

import (
	"fmt"
	"io"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application/applicationsrv"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/upload"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/upload/uploadsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
	files   *uploadsrv.Service
}

// NewHandlers creates a new application handlers instance
func NewHandlers(service *applicationsrv.ApplicationService, files *uploadsrv.Service) *Handlers {
	return &Handlers{
		service: service,
		files:   files,
	}
}

// CreateApplication submits a new application
// POST /api/applications
func (h *Handlers) CreateApplication(c *fiber.Ctx) error {
	var req application.CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	newApplication, err := h.service.CreateApplication(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newApplication)
}

// ListApplications retrieves all applications
// GET /api/applications
func (h *Handlers) ListApplications(c *fiber.Ctx) error {
	apps, err := h.service.ListApplications(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(application.NewApplicationListResponse(apps))
}

// GetApplicationByID retrieves an application by ID
// GET /api/applications/:id
func (h *Handlers) GetApplicationByID(c *fiber.Ctx) error {
	app, err := h.service.GetApplicationByID(c.UserContext(), kernel.NewApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(app)
}

// ListApplicationsByApplicant retrieves the applications of one applicant
// GET /api/applications/applicant/:applicantId
func (h *Handlers) ListApplicationsByApplicant(c *fiber.Ctx) error {
	id, ok := kernel.ParseInt64ID(c.Params("applicantId"))
	if !ok {
		return application.ErrInvalidRequest().WithDetail("applicant_id", c.Params("applicantId"))
	}

	apps, err := h.service.ListApplicationsByApplicant(c.UserContext(), kernel.NewApplicantID(id))
	if err != nil {
		return err
	}
	return c.JSON(application.NewApplicationListResponse(apps))
}

// ListApplicationsByJob retrieves applications for a specific job
// GET /api/applications/job/:jobId
func (h *Handlers) ListApplicationsByJob(c *fiber.Ctx) error {
	id, ok := kernel.ParseInt64ID(c.Params("jobId"))
	if !ok {
		return application.ErrInvalidRequest().WithDetail("job_id", c.Params("jobId"))
	}

	apps, err := h.service.ListApplicationsByJob(c.UserContext(), kernel.NewJobID(id))
	if err != nil {
		return err
	}
	return c.JSON(application.NewApplicationListResponse(apps))
}

// UpdateApplication replaces the descriptive part of an application
// PUT /api/applications/:id
func (h *Handlers) UpdateApplication(c *fiber.Ctx) error {
	var req application.UpdateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	app, err := h.service.UpdateApplication(c.UserContext(), kernel.NewApplicationID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(app)
}

// UpdateApplicationStatus moves an application to a new status
// PUT|PATCH /api/applications/:id/status
func (h *Handlers) UpdateApplicationStatus(c *fiber.Ctx) error {
	var req application.UpdateStatusRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
		}
	}
	if req.Status == "" {
		req.Status = c.Query("status")
	}
	if req.Status == "" {
		return application.ErrValidationFailed().WithDetail("Status", "required")
	}

	app, err := h.service.UpdateApplicationStatus(c.UserContext(), kernel.NewApplicationID(c.Params("id")), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Status updated successfully",
		"data":    app,
	})
}

// DeleteApplication hard-deletes an application
// DELETE /api/applications/:id
func (h *Handlers) DeleteApplication(c *fiber.Ctx) error {
	if err := h.service.DeleteApplication(c.UserContext(), kernel.NewApplicationID(c.Params("id"))); err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Application deleted successfully",
	})
}

// UploadFile stores a resume and returns its reference
// POST /api/applications/upload
func (h *Handlers) UploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return upload.ErrMissingFile().WithDetail("file_error", err.Error())
	}

	f, err := file.Open()
	if err != nil {
		return upload.ErrMissingFile().WithDetail("file_error", err.Error())
	}
	defer f.Close()

	// Read at most one byte past the limit so oversized files are rejected
	// without buffering them whole
	data, err := io.ReadAll(io.LimitReader(f, h.files.Config().MaxFileSize+1))
	if err != nil {
		return upload.ErrStorageFailed().WithCause(err)
	}

	stored, err := h.files.Store(c.UserContext(), upload.StoreRequest{
		Data:     data,
		FileName: file.Filename,
		Size:     file.Size,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(stored.ToResponse())
}

// DownloadFile streams a stored file back
// GET /api/applications/files/:filename
func (h *Handlers) DownloadFile(c *fiber.Ctx) error {
	stream, info, err := h.files.Load(c.UserContext(), c.Params("filename"))
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, info.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", info.Name))

	// SendStream closes the reader once the body is written
	return c.SendStream(stream)
}

// DeleteFile removes a stored file. Deleting an unknown file succeeds.
// DELETE /api/applications/files/:filename
func (h *Handlers) DeleteFile(c *fiber.Ctx) error {
	if err := h.files.Delete(c.UserContext(), c.Params("filename")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "File deleted successfully",
	})
}

// RegisterRoutes registers all application routes
func RegisterRoutes(app *fiber.App, handlers *Handlers) {
	api := app.Group("/api/applications")

	// File routes come first so /files and /upload never match /:id
	api.Post("/upload", handlers.UploadFile)
	api.Get("/files/:filename", handlers.DownloadFile)
	api.Delete("/files/:filename", handlers.DeleteFile)

	api.Post("/", handlers.CreateApplication)
	api.Get("/", handlers.ListApplications)
	api.Get("/applicant/:applicantId", handlers.ListApplicationsByApplicant)
	api.Get("/job/:jobId", handlers.ListApplicationsByJob)
	api.Get("/:id", handlers.GetApplicationByID)
	api.Put("/:id", handlers.UpdateApplication)
	api.Put("/:id/status", handlers.UpdateApplicationStatus)
	api.Patch("/:id/status", handlers.UpdateApplicationStatus)
	api.Delete("/:id", handlers.DeleteApplication)
}
