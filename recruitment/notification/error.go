package notification

import (
	"net/http"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("NOTIFICATION")

var (
	CodeDeliveryFailed = ErrRegistry.Register("DELIVERY_FAILED", errx.TypeExternal, http.StatusBadGateway, "Notification delivery failed")
	CodeNoRecipient    = ErrRegistry.Register("NO_RECIPIENT", errx.TypeValidation, http.StatusBadRequest, "Notification has no recipient")
)

func ErrDeliveryFailed() *errx.Error {
	return ErrRegistry.New(CodeDeliveryFailed)
}

func ErrNoRecipient() *errx.Error {
	return ErrRegistry.New(CodeNoRecipient)
}
