// Package worker provides a fixed-size pool for fire-and-forget
// background tasks. Callers get no handle back; a task that cannot be
// queued is dropped with a log line rather than blocking the caller.
package worker

import (
	"context"
	"sync"

	"github.com/booksyhq/booksy/internal/logger"
)

// Pool runs submitted tasks on a fixed number of goroutines.
type Pool struct {
	workers int
	tasks   chan func(ctx context.Context)
	wg      sync.WaitGroup
	logger  logger.Logger

	mu     sync.Mutex
	closed bool
}

// NewPool creates a pool with the given worker count and queue depth.
func NewPool(workers, queueSize int, log logger.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan func(ctx context.Context), queueSize),
		logger:  log,
	}
}

// Start launches the workers. Tasks receive ctx and should honor its
// cancellation.
func (p *Pool) Start(ctx context.Context) {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				if ctx.Err() != nil {
					continue // drain without running once shut down
				}
				task(ctx)
			}
		}()
	}
}

// Submit enqueues a task. Returns false when the queue is full or the
// pool is stopped; the task is dropped in both cases.
func (p *Pool) Submit(task func(ctx context.Context)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	select {
	case p.tasks <- task:
		return true
	default:
		p.logger.Warn("worker queue full, dropping task")
		return false
	}
}

// Stop closes the queue and waits for in-flight tasks to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
