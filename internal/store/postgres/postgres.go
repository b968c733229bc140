package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	pkgerrors "github.com/pkg/errors"

	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open postgres")
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(16)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, pkgerrors.Wrap(err, "ping postgres")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateSession(ctx context.Context, session domain.SessionRecord) error {
	if err := store.Validate(session); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO web_sessions (id, sealed_token, user_id, user_name, user_email, role, created_at, expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, session.ID, session.SealedToken, session.UserID, session.Name, session.Email, string(session.Role), session.CreatedAt.UTC(), session.ExpiresAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrInvalidSession
		}
		return pkgerrors.Wrap(err, "insert session")
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*domain.SessionRecord, error) {
	var (
		session domain.SessionRecord
		role    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, sealed_token, user_id, user_name, user_email, role, created_at, expires_at
		FROM web_sessions
		WHERE id = $1
	`, id).Scan(&session.ID, &session.SealedToken, &session.UserID, &session.Name, &session.Email, &role, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, pkgerrors.Wrap(err, "select session")
	}
	session.Role = domain.Role(role)
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE id = $1`, id); err != nil {
		return pkgerrors.Wrap(err, "delete session")
	}
	return nil
}

func (s *Store) DeleteUserSessions(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "delete user sessions")
	}
	return affected(res)
}

func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM web_sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(err, "delete expired sessions")
	}
	return affected(res)
}

func affected(res sql.Result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, pkgerrors.Wrap(err, "rows affected")
	}
	return int(n), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
