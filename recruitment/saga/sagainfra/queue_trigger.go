package sagainfra

import (
	"context"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/errx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/kernel"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/logx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/saga"
)

// QueueTrigger starts sagas by handing a message to the worker queue.
type QueueTrigger struct {
	queue saga.Queue
	now   func() time.Time
}

func NewQueueTrigger(queue saga.Queue) *QueueTrigger {
	return &QueueTrigger{queue: queue, now: time.Now}
}

func (t *QueueTrigger) OnApplicationCreated(ctx context.Context, id kernel.ApplicationID) error {
	msg := saga.NewApplicationCreated(id, t.now().UTC())

	if err := t.queue.Enqueue(ctx, msg); err != nil {
		if errx.HasCode(err, saga.CodeQueueFull) {
			return err
		}
		return saga.ErrEnqueueFailed().
			WithDetail("application_id", id.String()).
			WithCause(err)
	}

	logx.WithFields(logx.Fields{
		"application_id": id.String(),
		"message_id":     msg.ID.String(),
	}).Debug("Saga message enqueued")
	return nil
}
