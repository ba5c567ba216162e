package session

import (
	"context"

	"github.com/fadedpez/tablejack/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_session_service
type SessionService interface {
	CreateSession(ctx context.Context, playerID string, initialBalance entities.Amount) (*entities.Session, error)
	GetSession(ctx context.Context, sessionID string) (*entities.Session, error)
	GetStats(ctx context.Context, sessionID string) (entities.SessionStats, error)
	GetHistory(ctx context.Context, sessionID string, limit int) ([]*entities.HandRecord, error)
	GetLeaderboard(ctx context.Context, limit int) ([]entities.LeaderboardEntry, error)
}
