package session

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/fadedpez/tablejack/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	sessions map[string]*entities.Session
	records  map[string][]*entities.HandRecord
	mu       sync.RWMutex
}

// NewMemoryRepository creates a new in-memory session repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*entities.Session),
		records:  make(map[string][]*entities.HandRecord),
	}
}

// GetSession retrieves a session by ID
func (r *MemoryRepository) GetSession(ctx context.Context, sessionID string) (*entities.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}

	sessionCopy := *session
	return &sessionCopy, nil
}

// SaveSession creates or updates a session
func (r *MemoryRepository) SaveSession(ctx context.Context, session *entities.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sessionCopy := *session
	r.sessions[session.ID] = &sessionCopy
	return nil
}

// AddHandRecord appends a settled hand to a session's history
func (r *MemoryRepository) AddHandRecord(ctx context.Context, record *entities.HandRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[record.SessionID]; !exists {
		return ErrSessionNotFound
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	recordCopy := *record
	r.records[record.SessionID] = append(r.records[record.SessionID], &recordCopy)
	return nil
}

// GetHandRecords returns up to limit records, most recent first
func (r *MemoryRepository) GetHandRecords(ctx context.Context, sessionID string, limit int) ([]*entities.HandRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := r.records[sessionID]
	if limit <= 0 {
		return []*entities.HandRecord{}, nil
	}
	result := make([]*entities.HandRecord, 0, min(limit, len(records)))
	for i := len(records) - 1; i >= 0 && len(result) < limit; i-- {
		recordCopy := *records[i]
		result = append(result, &recordCopy)
	}
	return result, nil
}

// GetTopSessions returns up to limit sessions ordered by balance
func (r *MemoryRepository) GetTopSessions(ctx context.Context, limit int) ([]*entities.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*entities.Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessionCopy := *session
		all = append(all, &sessionCopy)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Balance != all[j].Balance {
			return all[i].Balance > all[j].Balance
		}
		return all[i].StartedAt.Before(all[j].StartedAt)
	})

	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// Close is a no-op for the memory repository
func (r *MemoryRepository) Close() error {
	return nil
}
