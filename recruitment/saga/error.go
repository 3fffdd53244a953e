package saga

import (
	"net/http"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("SAGA")

var (
	CodeQueueFull     = ErrRegistry.Register("QUEUE_FULL", errx.TypeExternal, http.StatusServiceUnavailable, "Saga queue is full")
	CodeEnqueueFailed = ErrRegistry.Register("ENQUEUE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to enqueue saga message")
	CodeStepFailed    = ErrRegistry.Register("STEP_FAILED", errx.TypeExternal, http.StatusBadGateway, "Saga step failed")
	CodeUnknownKind   = ErrRegistry.Register("UNKNOWN_KIND", errx.TypeValidation, http.StatusBadRequest, "Unknown saga message kind")
)

func ErrQueueFull() *errx.Error {
	return ErrRegistry.New(CodeQueueFull)
}

func ErrEnqueueFailed() *errx.Error {
	return ErrRegistry.New(CodeEnqueueFailed)
}

func ErrStepFailed() *errx.Error {
	return ErrRegistry.New(CodeStepFailed)
}

func ErrUnknownKind() *errx.Error {
	return ErrRegistry.New(CodeUnknownKind)
}
