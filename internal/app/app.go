package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fadedpez/tablejack/internal/config"
	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/internal/server"
	"github.com/fadedpez/tablejack/pkg/notify"
	sessionRepo "github.com/fadedpez/tablejack/pkg/repositories/session"
	"github.com/fadedpez/tablejack/pkg/services/session"
)

// App is the table server and its dependencies
type App struct {
	config    *config.Config
	log       *logging.Logger
	repo      sessionRepo.Repository
	sessions  *session.Service
	announcer *notify.Announcer
	server    *server.Server
}

// OpenRepository opens the configured session store. When Elasticsearch is
// configured the store is wrapped so hand results are indexed as well.
func OpenRepository(ctx context.Context, cfg *config.Config, logger *logging.Logger) (sessionRepo.Repository, error) {
	var (
		base sessionRepo.Repository
		err  error
	)
	switch cfg.StorageType {
	case config.StorageSQLite:
		logger.Info("using SQLite session store at %s", cfg.SQLitePath)
		base, err = sessionRepo.NewSQLiteRepository(ctx, cfg.SQLitePath, logger)
	case config.StorageMySQL:
		logger.Info("using MySQL session store")
		base, err = sessionRepo.NewMySQLRepository(ctx, cfg.MySQLDSN, logger)
	default:
		logger.Warn("using in-memory session store (data will be lost on restart)")
		base = sessionRepo.NewMemoryRepository()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	if cfg.ElasticsearchURL == "" {
		return base, nil
	}
	indexed, err := sessionRepo.NewElasticsearchRepository(ctx, base, &sessionRepo.ElasticsearchConfig{
		URL:      cfg.ElasticsearchURL,
		Username: cfg.ElasticsearchUsername,
		Password: cfg.ElasticsearchPassword,
		Index:    cfg.ElasticsearchIndex,
	}, logger)
	if err != nil {
		base.Close()
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	return indexed, nil
}

// New wires the application from cfg
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default
	}

	repo, err := OpenRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:   cfg,
		log:      logger.WithPrefix("app"),
		repo:     repo,
		sessions: session.NewService(repo, nil, logger),
	}

	opts := server.Options{
		Addr:     cfg.ListenAddr,
		Secret:   []byte(cfg.JWTSecret),
		TokenTTL: cfg.TokenTTL,
		IdleTTL:  cfg.TableIdleTTL,
		Rules:    cfg.Table,
		Logger:   logger,
	}
	if cfg.JWTSecret == "" {
		a.log.Warn("JWT_SECRET not set; tokens will not survive a restart")
		opts.Secret = []byte(uuid.NewString())
	}

	if cfg.DiscordToken != "" {
		ds, err := notify.NewSession(cfg.DiscordToken)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to create Discord session: %w", err)
		}
		a.announcer = notify.NewAnnouncer(ds, cfg.DiscordChannelID, logger)
		opts.Announcer = a.announcer
	}

	a.server = server.New(a.sessions, opts)
	return a, nil
}

// Sessions returns the session service
func (a *App) Sessions() *session.Service {
	return a.sessions
}

// Server returns the HTTP server
func (a *App) Server() *server.Server {
	return a.server
}

// Run serves until ctx is cancelled, then shuts everything down
func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown()

	if a.announcer != nil {
		if err := a.announcer.Open(); err != nil {
			return err
		}
	}
	return a.server.Run(ctx)
}

// Shutdown closes the announcer and the session store
func (a *App) Shutdown() {
	if a.announcer != nil {
		if err := a.announcer.Close(); err != nil {
			a.log.Warn("error closing Discord session: %v", err)
		}
	}
	if err := a.repo.Close(); err != nil {
		a.log.Warn("error closing session store: %v", err)
	}
}
