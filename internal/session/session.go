package session

import (
	"context"
	"errors"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"kasirinaja/frontend/internal/domain"
	"kasirinaja/frontend/internal/store"
	"kasirinaja/frontend/internal/xid"
)

const CookieName = "kasir_session"

var ErrNoSession = errors.New("no active session")

// Session is the signed-in identity for one browser. Token is the bearer
// credential issued by the remote API and is never written anywhere unsealed.
type Session struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Role      domain.Role
	Token     string
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == domain.RoleAdmin
}

type cookieClaims struct {
	jwtlib.RegisteredClaims
	Role string `json:"role"`
}

type Manager struct {
	repo    store.SessionRepository
	signKey []byte
	sealKey [32]byte
	ttl     time.Duration
	now     func() time.Time
}

func NewManager(secret string, ttl time.Duration, repo store.SessionRepository) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("session secret is required")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	signKey, err := deriveKey([]byte(secret), "cookie-signing")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "derive cookie key")
	}
	sealKey, err := deriveKey([]byte(secret), "credential-sealing")
	if err != nil {
		return nil, pkgerrors.Wrap(err, "derive sealing key")
	}
	return &Manager{
		repo:    repo,
		signKey: signKey[:],
		sealKey: sealKey,
		ttl:     ttl,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Begin stores a session for a successful login and returns it together with
// the signed cookie value that identifies it.
func (m *Manager) Begin(ctx context.Context, login domain.LoginResponse) (*Session, string, error) {
	if strings.TrimSpace(login.AccessToken) == "" {
		return nil, "", errors.New("login response carried no access token")
	}
	if login.Role != domain.RoleAdmin && login.Role != domain.RoleCashier {
		return nil, "", pkgerrors.Errorf("unsupported role %q", login.Role)
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	if upstream, ok := upstreamExpiry(login.AccessToken); ok && upstream.Before(expiresAt) {
		expiresAt = upstream
	}
	if !expiresAt.After(now) {
		return nil, "", ErrNoSession
	}

	sealed, err := seal(&m.sealKey, login.AccessToken)
	if err != nil {
		return nil, "", pkgerrors.Wrap(err, "seal credential")
	}

	record := domain.SessionRecord{
		ID:          xid.New("sess"),
		SealedToken: sealed,
		UserID:      login.ID,
		Name:        login.Name,
		Email:       login.Email,
		Role:        login.Role,
		CreatedAt:   now,
		ExpiresAt:   expiresAt,
	}
	if err := m.repo.CreateSession(ctx, record); err != nil {
		return nil, "", pkgerrors.Wrap(err, "store session")
	}

	cookie, err := m.sign(record.ID, string(record.Role), now, expiresAt)
	if err != nil {
		_ = m.repo.DeleteSession(ctx, record.ID)
		return nil, "", pkgerrors.Wrap(err, "sign session cookie")
	}

	log.WithFields(log.Fields{"session_id": record.ID, "user_id": record.UserID, "role": record.Role}).Info("session started")
	return &Session{
		ID:        record.ID,
		UserID:    record.UserID,
		Name:      record.Name,
		Email:     record.Email,
		Role:      record.Role,
		Token:     login.AccessToken,
		ExpiresAt: expiresAt,
	}, cookie, nil
}

// Resolve maps a cookie value back to its live session.
func (m *Manager) Resolve(ctx context.Context, cookie string) (*Session, error) {
	id, err := m.parse(cookie)
	if err != nil {
		return nil, ErrNoSession
	}

	record, err := m.repo.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	if !record.ExpiresAt.After(m.now()) {
		_ = m.repo.DeleteSession(ctx, id)
		return nil, ErrNoSession
	}

	token, err := unseal(&m.sealKey, record.SealedToken)
	if err != nil {
		log.WithField("session_id", id).Warn("dropping session with unreadable credential")
		_ = m.repo.DeleteSession(ctx, id)
		return nil, ErrNoSession
	}

	return &Session{
		ID:        record.ID,
		UserID:    record.UserID,
		Name:      record.Name,
		Email:     record.Email,
		Role:      record.Role,
		Token:     token,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// End tears the session down. Ending an unknown session is not an error.
func (m *Manager) End(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := m.repo.DeleteSession(ctx, id); err != nil {
		return pkgerrors.Wrap(err, "delete session")
	}
	log.WithField("session_id", id).Info("session ended")
	return nil
}

// Alive reports whether id names a stored, unexpired session. Store errors
// count as alive.
func (m *Manager) Alive(ctx context.Context, id string) bool {
	record, err := m.repo.GetSession(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false
	}
	if err != nil {
		log.WithError(err).WithField("session_id", id).Warn("check session")
		return true
	}
	return record.ExpiresAt.After(m.now())
}

// Purge drops expired sessions from the store.
func (m *Manager) Purge(ctx context.Context) (int, error) {
	return m.repo.DeleteExpiredSessions(ctx, m.now())
}

func (m *Manager) sign(id string, role string, issuedAt time.Time, expiresAt time.Time) (string, error) {
	claims := cookieClaims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			ID:        id,
			IssuedAt:  jwtlib.NewNumericDate(issuedAt),
			ExpiresAt: jwtlib.NewNumericDate(expiresAt),
			Issuer:    "kasirweb",
		},
		Role: role,
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(m.signKey)
}

func (m *Manager) parse(cookie string) (string, error) {
	claims := &cookieClaims{}
	token, err := jwtlib.ParseWithClaims(cookie, claims, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.signKey, nil
	}, jwtlib.WithValidMethods([]string{"HS256"}), jwtlib.WithIssuer("kasirweb"), jwtlib.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return "", errors.New("invalid or expired session cookie")
	}
	if claims.ID == "" {
		return "", errors.New("session cookie without id")
	}
	return claims.ID, nil
}

// upstreamExpiry reads exp from the API's credential when it is a JWT. The
// signature is not checked here; the API remains the authority on validity.
func upstreamExpiry(accessToken string) (time.Time, bool) {
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time.UTC(), true
}
