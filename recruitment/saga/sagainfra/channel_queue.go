package sagainfra

import (
	"context"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/saga"
)

// ChannelQueue is an in-process saga queue backed by a buffered channel.
// Enqueue never blocks: a full buffer is reported as SAGA.QUEUE_FULL.
type ChannelQueue struct {
	messages chan saga.Message
}

func NewChannelQueue(size int) *ChannelQueue {
	if size <= 0 {
		size = 1
	}
	return &ChannelQueue{messages: make(chan saga.Message, size)}
}

func (q *ChannelQueue) Enqueue(ctx context.Context, msg saga.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.messages <- msg:
		return nil
	default:
		return saga.ErrQueueFull().
			WithDetail("capacity", cap(q.messages)).
			WithDetail("message_id", msg.ID.String())
	}
}

func (q *ChannelQueue) Dequeue(ctx context.Context, timeout time.Duration) (*saga.Message, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-q.messages:
		return &msg, nil
	case <-timer.C:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *ChannelQueue) Size(ctx context.Context) (int64, error) {
	return int64(len(q.messages)), nil
}
