package session

import (
	"context"
	"errors"

	"github.com/fadedpez/tablejack/pkg/entities"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// Repository defines the interface for session data operations
//
//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_session_repo
type Repository interface {
	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, sessionID string) (*entities.Session, error)

	// SaveSession creates or updates a session
	SaveSession(ctx context.Context, session *entities.Session) error

	// AddHandRecord appends a settled hand to a session's history
	AddHandRecord(ctx context.Context, record *entities.HandRecord) error

	// GetHandRecords returns up to limit records, most recent first
	GetHandRecords(ctx context.Context, sessionID string, limit int) ([]*entities.HandRecord, error)

	// GetTopSessions returns up to limit sessions ordered by balance, highest first
	GetTopSessions(ctx context.Context, limit int) ([]*entities.Session, error)

	// Close releases any resources held by the repository
	Close() error
}
