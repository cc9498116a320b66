package background

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"time"
)

// Runner executes best-effort jobs off the request path. Job errors and
// panics are logged and never reach the caller.
type Runner struct {
	wg      sync.WaitGroup
	timeout time.Duration
}

func NewRunner(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Runner{timeout: timeout}
}

// Go schedules fn with its own timeout context; the request context is not
// reused because it dies with the response.
func (r *Runner) Go(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[BACKGROUND] %s panic: %v\n%s", name, rec, debug.Stack())
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Printf("[BACKGROUND] %s failed: %v", name, err)
		}
	}()
}

// Wait blocks until every scheduled job has returned.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Drain waits at most d; returns false when jobs were still running.
func (r *Runner) Drain(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
