package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/fadedpez/tablejack/internal/config"
	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/pkg/entities"
	"github.com/fadedpez/tablejack/pkg/scheduler"
	"github.com/fadedpez/tablejack/pkg/services/blackjack"
	"github.com/fadedpez/tablejack/pkg/services/session"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server
type Options struct {
	Addr          string
	Secret        []byte
	TokenTTL      time.Duration
	IdleTTL       time.Duration
	SweepInterval time.Duration
	Rules         config.TableRules

	// Announcer, when set, is told about every settled round
	Announcer blackjack.SettlementRecorder
	NewShoe   blackjack.ShoeFactory
	Clock     quartz.Clock
	Logger    *logging.Logger
}

// Server exposes sessions over HTTP and tables over websockets
type Server struct {
	opts      Options
	sessions  *session.Service
	tables    *Registry
	tokens    *TokenIssuer
	scheduler *scheduler.Scheduler
	upgrader  websocket.Upgrader
	router    *mux.Router
	log       *logging.Logger
}

// TableOptions converts table rules into engine options
func TableOptions(rules config.TableRules) blackjack.Options {
	opts := blackjack.DefaultOptions()
	opts.NumDecks = rules.Decks
	opts.StartingBalance = entities.Amount(rules.StartingBalance)
	opts.MinBet = entities.Amount(rules.MinBet)
	opts.MaxBet = entities.Amount(rules.MaxBet)
	opts.MaxSeats = rules.MaxSeats
	opts.PeekDelay = rules.PeekDelay()
	opts.ActionDelay = rules.ActionDelay()
	opts.DealerDelay = rules.DealerDelay()
	opts.AutoResetDelay = rules.AutoResetDelay()
	return opts
}

// New creates a server for sessions
func New(sessions *session.Service, opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = time.Minute
	}
	logger := opts.Logger.WithPrefix("server")

	s := &Server{
		opts:      opts,
		sessions:  sessions,
		tokens:    NewTokenIssuer(opts.Secret, opts.TokenTTL, opts.Clock),
		scheduler: scheduler.NewScheduler(opts.Clock, opts.Logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: logger,
	}
	s.tables = NewRegistry(sessions, s.newGame, opts.Clock, opts.IdleTTL, opts.Logger)
	s.scheduler.AddTask("sweep-tables", opts.SweepInterval, s.tables.Sweep)
	s.router = s.routes()
	return s
}

func (s *Server) newGame(sessionID string, balance entities.Amount) *blackjack.Game {
	opts := TableOptions(s.opts.Rules)
	opts.StartingBalance = balance
	opts.Clock = s.opts.Clock
	opts.Logger = s.opts.Logger.With("session", sessionID)
	opts.NewShoe = s.opts.NewShoe

	recorders := blackjack.Recorders{s.sessions.Recorder(sessionID)}
	if s.opts.Announcer != nil {
		recorders = append(recorders, s.opts.Announcer)
	}
	opts.Recorder = recorders
	return blackjack.NewGame(opts)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)

	private := api.NewRoute().Subrouter()
	private.Use(s.tokens.Middleware)
	private.HandleFunc("/sessions/{id}/stats", s.handleStats).Methods(http.MethodGet)
	private.HandleFunc("/sessions/{id}/history", s.handleHistory).Methods(http.MethodGet)
	private.HandleFunc("/ws/table", s.handleTable).Methods(http.MethodGet)
	return r
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	return s.router
}

// Tokens returns the server's token issuer
func (s *Server) Tokens() *TokenIssuer {
	return s.tokens
}

// Tables returns the open tables
func (s *Server) Tables() *Registry {
	return s.tables
}

// Run serves until ctx is cancelled, then shuts down and closes every table
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.scheduler.Start(ctx)
	defer s.scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.tables.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	// hijacked websocket connections are not tracked by Shutdown
	s.tables.Close()
	s.log.Info("server stopped")
	return err
}
