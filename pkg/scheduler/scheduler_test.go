package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadedpez/tablejack/internal/logging"
)

func TestSchedulerRunsTasksOnEveryTick(t *testing.T) {
	ctx := context.Background()
	clk := quartz.NewMock(t)
	s := NewScheduler(clk, logging.Discard())

	runs := make(chan struct{}, 4)
	s.AddTask("sweep", time.Minute, func(context.Context) error {
		runs <- struct{}{}
		return errors.New("failures are logged, not fatal")
	})
	s.Start(ctx)
	s.Start(ctx)
	defer s.Stop()

	for i := 0; i < 2; i++ {
		clk.Advance(time.Minute).MustWait(ctx)
		select {
		case <-runs:
		case <-time.After(5 * time.Second):
			require.FailNow(t, "task did not run")
		}
	}
}

func TestSchedulerStopCancelsTasks(t *testing.T) {
	ctx := context.Background()
	clk := quartz.NewMock(t)
	s := NewScheduler(clk, logging.Discard())

	started := make(chan struct{})
	cancelled := make(chan struct{})
	s.AddTask("wait", time.Second, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	})
	s.Start(ctx)
	clk.Advance(time.Second).MustWait(ctx)
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "task did not run")
	}

	s.Stop()
	select {
	case <-cancelled:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "task was not cancelled")
	}

	// stopping twice is harmless
	s.Stop()
	assert.False(t, s.running)
}
