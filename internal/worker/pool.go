// Package worker provides the bounded pool behind batch analysis runs.
package worker

import (
	"context"
	"sync"
)

// Task is a unit of work executed by the pool. Run is responsible for its
// own error reporting; the pool only schedules.
type Task interface {
	Run(ctx context.Context)
}

// Pool executes submitted tasks on a fixed number of workers.
type Pool struct {
	workers int
	tasks   chan Task
	wg      sync.WaitGroup
}

// NewPool creates a pool with the given worker count.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 4
	}
	return &Pool{
		workers: workers,
		tasks:   make(chan Task),
	}
}

// Start launches the workers. They exit when the task channel is closed or
// the context is cancelled, whichever comes first.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case t, ok := <-p.tasks:
					if !ok {
						return
					}
					t.Run(ctx)
				case <-ctx.Done():
					return
				}
			}
		}()
	}
}

// Submit queues a task, blocking until a worker accepts it or the context
// is cancelled.
func (p *Pool) Submit(ctx context.Context, t Task) error {
	select {
	case p.tasks <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals that no more tasks will be submitted.
func (p *Pool) Close() {
	close(p.tasks)
}

// Wait blocks until all workers have exited.
func (p *Pool) Wait() {
	p.wg.Wait()
}
