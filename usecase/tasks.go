package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"main/utils"
)

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// TaskRunner executes best-effort secondary effects (activity log appends,
// goal progress, streak refreshes) off the primary request path. Failures
// are logged and dropped; they never reach the caller of the primary
// operation. A full queue drops the task rather than blocking.
type TaskRunner struct {
	tasks   chan task
	timeout time.Duration
	wg      sync.WaitGroup
	once    sync.Once
}

func NewTaskRunner(workers, queueSize int, timeout time.Duration) *TaskRunner {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 64
	}
	r := &TaskRunner{
		tasks:   make(chan task, queueSize),
		timeout: timeout,
	}
	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Submit enqueues fn without blocking. Dropped tasks are logged.
func (r *TaskRunner) Submit(name string, fn func(ctx context.Context) error) {
	select {
	case r.tasks <- task{name: name, fn: fn}:
	default:
		log.Printf("task queue full, dropping %s", name)
		utils.TrackError("task", "queue_full")
	}
}

// Close stops accepting tasks and waits for queued ones to drain.
func (r *TaskRunner) Close() {
	r.once.Do(func() {
		close(r.tasks)
	})
	r.wg.Wait()
}

func (r *TaskRunner) worker() {
	defer r.wg.Done()
	for t := range r.tasks {
		r.run(t)
	}
}

func (r *TaskRunner) run(t task) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("background task %s panicked: %v", t.name, rec)
			utils.TrackError("task", "panic")
		}
	}()

	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := t.fn(ctx); err != nil {
		log.Printf("background task %s failed: %v", t.name, err)
		utils.TrackError("task", t.name)
	}
}
