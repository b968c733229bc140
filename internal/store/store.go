package store

import (
	"context"
	"errors"
	"time"

	"kasirinaja/frontend/internal/domain"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidSession = errors.New("invalid session")
)

// SessionRepository persists signed-in sessions. Records hold the bearer
// credential only in sealed form.
type SessionRepository interface {
	CreateSession(ctx context.Context, session domain.SessionRecord) error
	GetSession(ctx context.Context, id string) (*domain.SessionRecord, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) (int, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// Validate rejects records that cannot be stored.
func Validate(session domain.SessionRecord) error {
	if session.ID == "" || session.SealedToken == "" || session.UserID == "" {
		return ErrInvalidSession
	}
	if session.Role != domain.RoleAdmin && session.Role != domain.RoleCashier {
		return ErrInvalidSession
	}
	if !session.ExpiresAt.After(session.CreatedAt) {
		return ErrInvalidSession
	}
	return nil
}
