package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/internal/types"
	"github.com/fadedpez/tablejack/pkg/entities"
	"github.com/fadedpez/tablejack/pkg/services/blackjack"
	"github.com/fadedpez/tablejack/pkg/services/session"
)

// GameFactory builds the table for a session starting at balance
type GameFactory func(sessionID string, balance entities.Amount) *blackjack.Game

type table struct {
	game     *blackjack.Game
	conns    int
	lastUsed time.Time
}

// Registry keeps one table per session
type Registry struct {
	sessions *session.Service
	factory  GameFactory
	clock    quartz.Clock
	idleTTL  time.Duration
	log      *logging.Logger

	mu     sync.Mutex
	tables map[string]*table
}

// NewRegistry creates an empty registry. Tables without connections are
// dropped by Sweep once idle for idleTTL.
func NewRegistry(sessions *session.Service, factory GameFactory, clock quartz.Clock, idleTTL time.Duration, logger *logging.Logger) *Registry {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = logging.Default
	}
	return &Registry{
		sessions: sessions,
		factory:  factory,
		clock:    clock,
		idleTTL:  idleTTL,
		log:      logger.WithPrefix("tables"),
		tables:   make(map[string]*table),
	}
}

// Acquire returns the session's table, opening it at the stored balance if
// needed. The returned func must be called when the caller is done with it.
func (r *Registry) Acquire(ctx context.Context, sessionID string) (*blackjack.Game, func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[sessionID]
	if !ok {
		s, err := r.sessions.GetSession(ctx, sessionID)
		if err != nil {
			return nil, nil, err
		}
		t = &table{game: r.factory(sessionID, s.Balance)}
		r.tables[sessionID] = t
		r.log.Info("opened table for %s at %d", sessionID, s.Balance)
	}
	t.conns++
	t.lastUsed = r.clock.Now()

	var once sync.Once
	release := func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			t.conns--
			t.lastUsed = r.clock.Now()
		})
	}
	return t.game, release, nil
}

// Lookup returns an open table
func (r *Registry) Lookup(sessionID string) (*blackjack.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tables[sessionID]
	if !ok {
		return nil, types.NewGameError(types.ErrTableNotFound, fmt.Sprintf("No table for session %s", sessionID))
	}
	return t.game, nil
}

// Len returns the number of open tables
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tables)
}

// Sweep closes tables that have had no connection for idleTTL. A round in
// flight is dropped; its stakes were never booked against the session.
func (r *Registry) Sweep(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	for id, t := range r.tables {
		if t.conns > 0 || now.Sub(t.lastUsed) < r.idleTTL {
			continue
		}
		t.game.Close()
		delete(r.tables, id)
		r.log.Debug("closed idle table for %s", id)
	}
	return nil
}

// Close closes every table
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.tables {
		t.game.Close()
		delete(r.tables, id)
	}
}
