package memory

import (
	"context"
	"sync"
	"time"

	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/store"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionRecord
}

func New() *Store {
	return &Store{sessions: make(map[string]domain.SessionRecord)}
}

func (s *Store) CreateSession(_ context.Context, session domain.SessionRecord) error {
	if err := store.Validate(session); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return store.ErrInvalidSession
	}
	s.sessions[session.ID] = session
	return nil
}

func (s *Store) GetSession(_ context.Context, id string) (*domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &session, nil
}

func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Store) DeleteUserSessions(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if !session.ExpiresAt.After(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
