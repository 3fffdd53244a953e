package saga

import (
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
	"github.com/google/uuid"
)

type Kind string

const (
	KindApplicationCreated Kind = "APPLICATION_CREATED"
)

// Message is one unit of post-creation work handed to the saga workers
type Message struct {
	ID            kernel.MessageID     `json:"id"`
	Kind          Kind                 `json:"kind"`
	ApplicationID kernel.ApplicationID `json:"application_id"`
	CreatedAt     time.Time            `json:"created_at"`
}

func NewApplicationCreated(id kernel.ApplicationID, now time.Time) Message {
	return Message{
		ID:            kernel.NewMessageID(uuid.NewString()),
		Kind:          KindApplicationCreated,
		ApplicationID: id,
		CreatedAt:     now,
	}
}
