package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Badsnus/events-backend/internal/adapters/database/redis/tasks"
	"github.com/Badsnus/events-backend/internal/adapters/metrics"
	"github.com/Badsnus/events-backend/internal/domain/common/errorz"
	"github.com/Badsnus/events-backend/pkg/logger/types"
)

// Handler runs one task. A returned error makes the task retryable.
type Handler func(ctx context.Context, taskID string, payload json.RawMessage) error

type Queue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*tasks.Delivery, error)
	Ack(ctx context.Context, d *tasks.Delivery) error
	Retry(ctx context.Context, d *tasks.Delivery, cause error, maxAttempts int) (bool, error)
	DeadLetter(ctx context.Context, d *tasks.Delivery, cause error) error
	PromoteDue(ctx context.Context) (int, error)
	RecoverProcessing(ctx context.Context) (int, error)
	Stats(ctx context.Context) (tasks.Stats, error)
}

type Options struct {
	Concurrency  int
	PollTimeout  time.Duration
	MaxAttempts  int
	PromoteEvery time.Duration
}

// Worker pulls tasks from the queue and runs the handler registered for each name.
type Worker struct {
	queue    Queue
	handlers map[string]Handler
	opts     Options
	logger   *types.Logger
}

func New(queue Queue, opts Options, logger *types.Logger) *Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 5 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.PromoteEvery <= 0 {
		opts.PromoteEvery = time.Second
	}
	return &Worker{
		queue:    queue,
		handlers: make(map[string]Handler),
		opts:     opts,
		logger:   logger,
	}
}

func (w *Worker) Register(name string, handler Handler) {
	w.handlers[name] = handler
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	recovered, err := w.queue.RecoverProcessing(ctx)
	if err != nil {
		return fmt.Errorf("recover processing tasks: %w", err)
	}
	if recovered > 0 {
		w.logger.Warnf("Requeued %d task(s) left by a previous worker", recovered)
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < w.opts.Concurrency; i++ {
		g.Go(func() error {
			return w.consume(ctx)
		})
	}
	g.Go(func() error {
		return w.promote(ctx)
	})

	w.logger.Infof("Worker started (concurrency=%d, max_attempts=%d)", w.opts.Concurrency, w.opts.MaxAttempts)
	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *Worker) consume(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		delivery, err := w.queue.Dequeue(ctx, w.opts.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Errorf("failed to dequeue task: %v", err)
			sleep(ctx, time.Second)
			continue
		}
		if delivery == nil {
			continue
		}

		w.Process(ctx, delivery)
	}
}

// Process runs a single delivery and settles it in the queue.
func (w *Worker) Process(ctx context.Context, d *tasks.Delivery) {
	start := time.Now()

	handler, ok := w.handlers[d.Name]
	if !ok {
		w.logger.Errorf("no handler for task %s (task_id=%s)", d.Name, d.ID)
		if err := w.queue.DeadLetter(ctx, d, fmt.Errorf("%w: %s", errorz.ErrUnknownTask, d.Name)); err != nil {
			w.logger.Errorf("failed to dead-letter task %s: %v", d.ID, err)
		}
		metrics.RecordTask(d.Name, metrics.TaskDead, time.Since(start))
		return
	}

	err := w.run(ctx, handler, d)
	if err == nil {
		if ackErr := w.queue.Ack(ctx, d); ackErr != nil {
			w.logger.Errorf("failed to ack task %s: %v", d.ID, ackErr)
		}
		w.logger.Debugf("task %s done (task_id=%s, attempt=%d)", d.Name, d.ID, d.Attempt)
		metrics.RecordTask(d.Name, metrics.TaskSucceeded, time.Since(start))
		return
	}

	dead, retryErr := w.queue.Retry(ctx, d, err, w.opts.MaxAttempts)
	if retryErr != nil {
		w.logger.Errorf("failed to reschedule task %s: %v", d.ID, retryErr)
		return
	}
	if dead {
		w.logger.Errorf("task %s dead-lettered after %d attempt(s) (task_id=%s): %v", d.Name, d.Attempt+1, d.ID, err)
		metrics.RecordTask(d.Name, metrics.TaskDead, time.Since(start))
		return
	}
	w.logger.Warnf("task %s failed, will retry (task_id=%s, attempt=%d): %v", d.Name, d.ID, d.Attempt+1, err)
	metrics.RecordTask(d.Name, metrics.TaskRetried, time.Since(start))
}

func (w *Worker) run(ctx context.Context, handler Handler, d *tasks.Delivery) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return handler(ctx, d.ID, d.Payload)
}

func (w *Worker) promote(ctx context.Context) error {
	ticker := time.NewTicker(w.opts.PromoteEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.queue.PromoteDue(ctx); err != nil && ctx.Err() == nil {
				w.logger.Errorf("failed to promote delayed tasks: %v", err)
			}
			if stats, err := w.queue.Stats(ctx); err == nil {
				metrics.SetQueueDepth(stats.Pending, stats.Processing, stats.Delayed, stats.Dead)
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
