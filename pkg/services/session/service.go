package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/fadedpez/tablejack/internal/logging"
	"github.com/fadedpez/tablejack/internal/types"
	"github.com/fadedpez/tablejack/pkg/entities"
	sessionRepo "github.com/fadedpez/tablejack/pkg/repositories/session"
)

const (
	DefaultStartingBalance  entities.Amount = 10000
	DefaultHistoryLimit                     = 50
	DefaultLeaderboardLimit                 = 10
)

// Service handles session bankrolls, results and stats
type Service struct {
	repo  sessionRepo.Repository
	clock quartz.Clock
	log   *logging.Logger

	// serializes read-modify-write cycles on sessions
	mu sync.Mutex
}

// NewService creates a new session service
func NewService(repo sessionRepo.Repository, clock quartz.Clock, logger *logging.Logger) *Service {
	if clock == nil {
		clock = quartz.NewReal()
	}
	if logger == nil {
		logger = logging.Default
	}
	return &Service{
		repo:  repo,
		clock: clock,
		log:   logger.WithPrefix("session"),
	}
}

// CreateSession opens a session for playerID. A zero initialBalance uses
// DefaultStartingBalance.
func (s *Service) CreateSession(ctx context.Context, playerID string, initialBalance entities.Amount) (*entities.Session, error) {
	if playerID == "" {
		return nil, types.NewGameError(types.ErrInvalidArgument, "Player ID is required")
	}
	if initialBalance < 0 {
		return nil, types.NewGameError(types.ErrInvalidAmount, "Initial balance cannot be negative")
	}
	if initialBalance == 0 {
		initialBalance = DefaultStartingBalance
	}

	now := s.clock.Now().UTC()
	session := &entities.Session{
		ID:          "session_" + uuid.New().String(),
		PlayerID:    playerID,
		Balance:     initialBalance,
		StartedAt:   now,
		LastUpdated: now,
	}
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "creating session", err)
	}

	s.log.Info("session %s opened for %s with %d", session.ID, playerID, initialBalance)
	return session, nil
}

// GetSession returns a session by ID
func (s *Service) GetSession(ctx context.Context, sessionID string) (*entities.Session, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, types.WrapError(types.ErrSessionNotFound, "Session not found", err)
		}
		return nil, types.WrapError(types.ErrDatabaseError, "loading session", err)
	}
	return session, nil
}

// PlaceBet debits amount from the session and returns the new balance
func (s *Service) PlaceBet(ctx context.Context, sessionID string, amount entities.Amount) (entities.Amount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if amount <= 0 {
		return session.Balance, types.NewGameError(types.ErrInvalidAmount, "Invalid bet amount")
	}
	if amount > session.Balance {
		return session.Balance, types.NewGameError(types.ErrInsufficientFunds, "Insufficient balance")
	}

	session.Balance -= amount
	session.CurrentBet = amount
	session.LastUpdated = s.clock.Now().UTC()
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return 0, types.WrapError(types.ErrDatabaseError, "saving bet", err)
	}

	s.log.Debug("session %s bet %d, balance %d", sessionID, amount, session.Balance)
	return session.Balance, nil
}

// RecordResult credits a settled hand's payout, folds it into the session
// stats and appends it to the history.
func (s *Service) RecordResult(ctx context.Context, sessionID string, result entities.HandRecord) (entities.Amount, entities.SessionStats, error) {
	if !result.Outcome.Valid() {
		return 0, entities.SessionStats{}, types.NewGameError(types.ErrInvalidArgument, fmt.Sprintf("unknown outcome %q", result.Outcome))
	}
	if result.Bet <= 0 || result.Payout < 0 {
		return 0, entities.SessionStats{}, types.NewGameError(types.ErrInvalidAmount, "Invalid result amounts")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return 0, entities.SessionStats{}, err
	}

	now := s.clock.Now().UTC()
	result.ID = uuid.New().String()
	result.SessionID = sessionID
	result.RecordedAt = now

	session.Balance += result.Payout
	session.Stats.Record(result)
	session.LastUpdated = now

	if err := s.repo.SaveSession(ctx, session); err != nil {
		return 0, entities.SessionStats{}, types.WrapError(types.ErrDatabaseError, "saving result", err)
	}
	if err := s.repo.AddHandRecord(ctx, &result); err != nil {
		return 0, entities.SessionStats{}, types.WrapError(types.ErrDatabaseError, "saving history", err)
	}

	s.log.Debug("session %s %s: bet %d payout %d, balance %d",
		sessionID, result.Outcome, result.Bet, result.Payout, session.Balance)
	return session.Balance, session.Stats, nil
}

// SyncBalance overwrites the stored balance with the table's
func (s *Service) SyncBalance(ctx context.Context, sessionID string, balance entities.Amount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Balance == balance {
		return nil
	}

	s.log.Debug("session %s balance %d synced to %d", sessionID, session.Balance, balance)
	session.Balance = balance
	session.LastUpdated = s.clock.Now().UTC()
	if err := s.repo.SaveSession(ctx, session); err != nil {
		return types.WrapError(types.ErrDatabaseError, "syncing balance", err)
	}
	return nil
}

// GetStats returns the session's cumulative stats
func (s *Service) GetStats(ctx context.Context, sessionID string) (entities.SessionStats, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return entities.SessionStats{}, err
	}
	return session.Stats, nil
}

// GetHistory returns up to limit settled hands, most recent first. A
// non-positive limit uses DefaultHistoryLimit.
func (s *Service) GetHistory(ctx context.Context, sessionID string, limit int) ([]*entities.HandRecord, error) {
	if _, err := s.GetSession(ctx, sessionID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	records, err := s.repo.GetHandRecords(ctx, sessionID, limit)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "loading history", err)
	}
	return records, nil
}

// GetLeaderboard ranks sessions by balance
func (s *Service) GetLeaderboard(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	sessions, err := s.repo.GetTopSessions(ctx, limit)
	if err != nil {
		return nil, types.WrapError(types.ErrDatabaseError, "loading leaderboard", err)
	}

	entries := make([]entities.LeaderboardEntry, 0, len(sessions))
	for i, session := range sessions {
		entries = append(entries, entities.LeaderboardEntry{
			Rank:        i + 1,
			SessionID:   session.ID,
			PlayerID:    session.PlayerID,
			Balance:     session.Balance,
			NetProfit:   session.Stats.NetProfit(),
			HandsPlayed: session.Stats.TotalHands,
		})
	}
	return entries, nil
}

// ValidateShuffle reports whether deckOrder is a fair shuffle for seed. Every
// shuffle is currently accepted.
// TODO: check deckOrder against entities.Shuffle once rounds publish their seed.
func (s *Service) ValidateShuffle(ctx context.Context, seed string, deckOrder []entities.Card) (bool, error) {
	return true, nil
}
