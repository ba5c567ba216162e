package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/fadedpez/tablejack/internal/logging"
)

// Task represents a periodic task
type Task struct {
	Name     string
	Interval time.Duration
	Fn       func(context.Context) error
}

// Scheduler runs periodic tasks on a clock
type Scheduler struct {
	clock   quartz.Clock
	log     *logging.Logger
	tasks   []*Task
	running bool
	mutex   sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewScheduler creates a new scheduler
func NewScheduler(clock quartz.Clock, logger *logging.Logger) *Scheduler {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = logging.Default
	}
	return &Scheduler{
		clock: clock,
		log:   logger.WithPrefix("scheduler"),
		tasks: make([]*Task, 0),
	}
}

// AddTask adds a task to the scheduler
func (s *Scheduler) AddTask(name string, interval time.Duration, fn func(context.Context) error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
}

// Start starts every task. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, task := range s.tasks {
		ticker := s.clock.NewTicker(task.Interval, "scheduler", task.Name)
		s.wg.Add(1)
		go s.runTask(ctx, task, ticker)
	}

	s.log.Info("scheduler started with %d tasks", len(s.tasks))
}

// Stop stops every task and waits for them to return
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	if !s.running {
		s.mutex.Unlock()
		return
	}
	s.cancel()
	s.running = false
	s.mutex.Unlock()

	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) runTask(ctx context.Context, task *Task, ticker *quartz.Ticker) {
	defer s.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.log.Debug("running scheduled task: %s", task.Name)
			if err := task.Fn(ctx); err != nil {
				s.log.Error("error running task %s: %v", task.Name, err)
			}
		case <-ctx.Done():
			return
		}
	}
}
