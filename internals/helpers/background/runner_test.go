package background

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunner_WaitCollectsAllJobs(t *testing.T) {
	r := NewRunner(time.Second)
	var n int32
	for i := 0; i < 20; i++ {
		r.Go("inc", func(ctx context.Context) error {
			atomic.AddInt32(&n, 1)
			return nil
		})
	}
	r.Wait()
	assert.Equal(t, int32(20), atomic.LoadInt32(&n))
}

func TestRunner_SwallowsErrorsAndPanics(t *testing.T) {
	r := NewRunner(time.Second)
	r.Go("fails", func(ctx context.Context) error { return errors.New("boom") })
	r.Go("panics", func(ctx context.Context) error { panic("boom") })
	assert.True(t, r.Drain(time.Second))
}

func TestRunner_JobGetsDeadline(t *testing.T) {
	r := NewRunner(50 * time.Millisecond)
	var hadDeadline atomic.Bool
	r.Go("deadline", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		hadDeadline.Store(ok)
		<-ctx.Done()
		return ctx.Err()
	})
	r.Wait()
	assert.True(t, hadDeadline.Load())
}

func TestRunner_DrainTimesOut(t *testing.T) {
	r := NewRunner(time.Second)
	release := make(chan struct{})
	r.Go("slow", func(ctx context.Context) error {
		<-release
		return nil
	})
	assert.False(t, r.Drain(10*time.Millisecond))
	close(release)
	r.Wait()
}
