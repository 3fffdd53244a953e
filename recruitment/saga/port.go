package saga

import (
	"context"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
)

// Trigger starts the post-creation workflow for an application
type Trigger interface {
	OnApplicationCreated(ctx context.Context, id kernel.ApplicationID) error
}

// Queue carries saga messages from the trigger to the workers.
// Dequeue returns nil, nil when nothing arrived within timeout.
type Queue interface {
	Enqueue(ctx context.Context, msg Message) error
	Dequeue(ctx context.Context, timeout time.Duration) (*Message, error)
	Size(ctx context.Context) (int64, error)
}
