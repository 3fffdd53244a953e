package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/internal/config"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application/applicationapi"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/upload"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobalErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: globalErrorHandler})
	app.Get("/domain", func(c *fiber.Ctx) error { return application.ErrApplicationNotFound() })
	app.Get("/plain", func(c *fiber.Ctx) error { return errors.New("boom") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/domain", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/plain", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/nowhere", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGlobalErrorHandler_BodyTooLargeIsFileTooLarge(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: globalErrorHandler})
	app.Post("/upload", func(c *fiber.Ctx) error { return fiber.ErrRequestEntityTooLarge })

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/upload", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body errx.HTTPResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, upload.CodeFileTooLarge, body.Code)
	assert.Equal(t, errx.TypeValidation, body.Type)
}

func TestContainer_InMemoryWiring(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.UploadDir = filepath.Join(t.TempDir(), "uploads")
	cfg.Saga.Workers = 1

	container := NewContainer(cfg)
	t.Cleanup(container.Close)

	assert.Nil(t, container.DB)
	assert.Nil(t, container.Redis)

	ctx, cancel := context.WithCancel(context.Background())
	container.SagaWorker.Start(ctx)

	app := fiber.New(fiber.Config{ErrorHandler: globalErrorHandler})
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers)

	req := httptest.NewRequest(http.MethodPost, "/api/applications",
		strings.NewReader(`{"applicant_id":100,"job_id":200,"applicant_email":"a@b.com"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	container.ApplicationService.WaitForDispatches()
	require.Eventually(t, func() bool {
		size, err := container.SagaQueue.Size(context.Background())
		return err == nil && size == 0
	}, 5*time.Second, 10*time.Millisecond)

	health := container.Health(context.Background())
	assert.Equal(t, "ok", health["status"])
	assert.NotContains(t, health, "db")

	cancel()
	container.SagaWorker.Wait()
}
