package pool

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"go.uber.org/zap"

	"videoDubber/worker/kafka"
)

const (
	defaultAttempts   = 3
	defaultRetryDelay = 500 * time.Millisecond
)

type Handler func(ctx context.Context, event *kafka.ProgressEvent) error

type task struct {
	event *kafka.ProgressEvent
	done  chan error
}

// WorkerPool runs a fixed number of workers. Events for the same job always
// land on the same worker, so they are applied in the order they arrived.
type WorkerPool struct {
	queues     []chan task
	handler    Handler
	attempts   int
	retryDelay time.Duration
	logger     *zap.Logger
	wg         sync.WaitGroup
}

func NewWorkerPool(ctx context.Context, maxWorkers int, handler Handler, logger *zap.Logger) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	p := &WorkerPool{
		queues:     make([]chan task, maxWorkers),
		handler:    handler,
		attempts:   defaultAttempts,
		retryDelay: defaultRetryDelay,
		logger:     logger,
	}
	for i := range p.queues {
		p.queues[i] = make(chan task, 16)
		p.wg.Add(1)
		go p.run(ctx, p.queues[i])
	}
	return p
}

func (p *WorkerPool) run(ctx context.Context, queue <-chan task) {
	defer p.wg.Done()
	for t := range queue {
		t.done <- p.handle(ctx, t.event)
	}
}

// handle retries the handler with a growing delay and returns the last error.
func (p *WorkerPool) handle(ctx context.Context, event *kafka.ProgressEvent) error {
	for attempt := 1; ; attempt++ {
		err := p.handler(ctx, event)
		if err == nil || attempt >= p.attempts {
			return err
		}

		p.logger.Warn("Retrying progress event",
			zap.String("job_id", event.JobID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.retryDelay * time.Duration(attempt)):
		}
	}
}

// Submit hands event to its worker and waits until it is applied. The
// returned error is the handler's once retries are exhausted, or ctx.Err()
// if ctx is cancelled first.
func (p *WorkerPool) Submit(ctx context.Context, event *kafka.ProgressEvent) error {
	t := task{event: event, done: make(chan error, 1)}

	select {
	case p.queues[p.shard(event.JobID)] <- t:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *WorkerPool) shard(jobID string) int {
	h := fnv.New32a()
	h.Write([]byte(jobID))
	return int(h.Sum32() % uint32(len(p.queues)))
}

// Close stops accepting events and waits for queued ones to finish. Submit
// must not be called after Close.
func (p *WorkerPool) Close() {
	for _, q := range p.queues {
		close(q)
	}
	p.wg.Wait()
}
