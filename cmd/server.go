package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/internal/config"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/logx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/application/applicationapi"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/upload"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// multipart framing on top of the largest accepted file
const bodyOverhead = 1 << 20

func main() {
	// 1. Load Configuration and Initialize Logger
	cfg, err := config.Load()
	if err != nil {
		logx.Fatalf("Invalid configuration: %v", err)
	}
	logx.SetLevel(logx.ParseLevel(cfg.Log.Level))
	logx.SetFormat(cfg.Log.Format)
	logx.Info("Starting RevJobs Application Service...")

	// 2. Initialize Dependency Container
	container := NewContainer(cfg)
	defer container.Close()

	// 3. Create Fiber App with Config
	app := fiber.New(fiber.Config{
		AppName:               "RevJobs Application Service",
		DisableStartupMessage: true,
		ErrorHandler:          globalErrorHandler,
		BodyLimit:             int(cfg.Storage.MaxFileSize) + bodyOverhead,
	})

	// 4. Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// 5. Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(container.Health(c.UserContext()))
	})

	// 6. Register Routes
	// Applications and resume files: /api/applications
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers)

	// 7. Start Saga Workers
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	container.SagaWorker.Start(workerCtx)

	// 8. Start Server with Graceful Shutdown
	go func() {
		logx.Infof("Server listening on port %s", cfg.Server.Port)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			logx.Fatalf("Server error: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c // Wait for signal
	logx.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
	}

	// In-flight saga hand-offs finish before the workers drain the queue
	container.ApplicationService.WaitForDispatches()
	stopWorkers()
	container.SagaWorker.Wait()

	logx.Info("Server exited")
}

// globalErrorHandler converts internal errors to standard HTTP responses
func globalErrorHandler(c *fiber.Ctx, err error) error {
	// Bodies past BodyLimit are rejected by the transport before any handler
	// runs; answer them like any other oversized upload
	if errors.Is(err, fiber.ErrRequestEntityTooLarge) {
		err = upload.ErrFileTooLarge()
	}

	// If it's a Fiber error (e.g., 404 handler not found)
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error": fe.Message,
			"code":  fe.Code,
		})
	}

	// If it's our custom errx.Error
	if e, ok := errx.As(err); ok {
		if e.Type == errx.TypeInternal {
			logx.WithError(err).Error("Request failed")
		}
		return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
	}

	// Default unknown error
	logx.Errorf("Internal Server Error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal Server Error",
		"type":    "INTERNAL",
		"code":    "INTERNAL_ERROR",
		"message": "An unexpected error occurred",
	})
}
