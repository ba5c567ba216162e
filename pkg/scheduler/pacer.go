package scheduler

import (
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/fadedpez/tablejack/internal/logging"
)

// Pacer runs one-shot continuations after a delay. Continuations carry no
// state of their own; callers decide on firing whether they still apply.
type Pacer struct {
	clock   quartz.Clock
	log     *logging.Logger
	mu      sync.Mutex
	timers  map[uint64]*quartz.Timer
	nextID  uint64
	stopped bool
}

// NewPacer creates a pacer on the given clock. A nil clock uses wall time.
func NewPacer(clock quartz.Clock, logger *logging.Logger) *Pacer {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = logging.Default
	}
	return &Pacer{
		clock:  clock,
		log:    logger.WithPrefix("pacer"),
		timers: make(map[uint64]*quartz.Timer),
	}
}

// After runs fn once delay has elapsed. It does nothing once the pacer is
// stopped.
func (p *Pacer) After(name string, delay time.Duration, fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		p.log.Debug("dropping %s: pacer stopped", name)
		return
	}

	id := p.nextID
	p.nextID++
	p.timers[id] = p.clock.AfterFunc(delay, func() {
		p.mu.Lock()
		_, live := p.timers[id]
		delete(p.timers, id)
		p.mu.Unlock()
		if !live {
			return
		}
		fn()
	}, "pacer", name)
}

// Pending returns the number of continuations that have not fired yet
func (p *Pacer) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.timers)
}

// Stop cancels every pending continuation and refuses new ones
func (p *Pacer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopped = true
	for id, t := range p.timers {
		t.Stop()
		delete(p.timers, id)
	}
}
