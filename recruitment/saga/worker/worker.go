package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/pkg/logx"
	"github.com/Virtusa-Java-FSD/RevJobs-P2-Application-Service/recruitment/saga"
)

const (
	defaultPollTimeout = 5 * time.Second
	dequeueBackoff     = time.Second
)

// Runner executes one saga message
type Runner interface {
	Run(ctx context.Context, msg saga.Message) error
}

type SagaWorker struct {
	runner      Runner
	queue       saga.Queue
	workers     int
	pollTimeout time.Duration
	runTimeout  time.Duration
	wg          sync.WaitGroup
}

func NewSagaWorker(runner Runner, queue saga.Queue, workers int, runTimeout time.Duration) *SagaWorker {
	if workers <= 0 {
		workers = 1
	}
	return &SagaWorker{
		runner:      runner,
		queue:       queue,
		workers:     workers,
		pollTimeout: defaultPollTimeout,
		runTimeout:  runTimeout,
	}
}

// Start launches the worker pool. Workers stop when ctx is cancelled;
// a message already taken off the queue is finished first.
func (w *SagaWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d saga workers", w.workers)

	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.processMessages(ctx, i)
	}
}

// Wait blocks until every worker has stopped
func (w *SagaWorker) Wait() {
	w.wg.Wait()
}

func (w *SagaWorker) processMessages(ctx context.Context, workerID int) {
	defer w.wg.Done()
	logx.Infof("Saga worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Saga worker %d stopping", workerID)
			return
		default:
		}

		msg, err := w.queue.Dequeue(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			logx.Errorf("Saga worker %d dequeue error: %v", workerID, err)
			select {
			case <-ctx.Done():
			case <-time.After(dequeueBackoff):
			}
			continue
		}

		// queue timeout, nothing to do
		if msg == nil {
			continue
		}

		w.handle(ctx, workerID, *msg)
	}
}

func (w *SagaWorker) handle(ctx context.Context, workerID int, msg saga.Message) {
	runCtx := context.WithoutCancel(ctx)
	if w.runTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, w.runTimeout)
		defer cancel()
	}

	entry := logx.WithFields(logx.Fields{
		"worker":         workerID,
		"message_id":     msg.ID.String(),
		"event":          string(msg.Kind),
		"application_id": msg.ApplicationID.String(),
	})

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return w.runner.Run(runCtx, msg)
	}()

	if err != nil {
		entry.WithError(err).Warn("Saga finished with failures")
		return
	}
	entry.Debug("Saga completed")
}
