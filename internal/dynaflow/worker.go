package dynaflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"farmcore/internal/core"
)

const dequeueRetryDelay = time.Second

// Worker pulls flow IDs from a queue and runs them one at a time.
type Worker struct {
	queue  Queue
	runner *Runner
	logger core.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker constructs a worker.
func NewWorker(queue Queue, runner *Runner) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		queue:  queue,
		runner: runner,
		logger: runner.logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins processing queued flows.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop signals the worker to halt and waits for the current flow to end.
func (w *Worker) Stop(ctx context.Context) error {
	w.cancel()
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		id, err := w.queue.Dequeue(w.ctx)
		switch {
		case err == nil:
		case w.ctx.Err() != nil, errors.Is(err, ErrQueueClosed):
			return
		default:
			w.logger.Error("dyna flow dequeue failed", "error", err)
			select {
			case <-w.ctx.Done():
				return
			case <-time.After(dequeueRetryDelay):
			}
			continue
		}
		if err := w.runner.Run(w.ctx, id); err != nil {
			w.logger.Error("dyna flow run failed", "dyna_flow_id", id, "error", err)
		}
	}
}
