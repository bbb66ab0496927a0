package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/booking-platform/internal/persistence"
)

// CredentialStore captures the user lookups needed for authentication.
type CredentialStore interface {
	GetUser(ctx context.Context, id string) (persistence.User, error)
	GetUserByEmail(ctx context.Context, email string) (persistence.User, error)
}

// SessionStore captures the session persistence needed for token issuance and
// validation.
type SessionStore interface {
	CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error)
	GetSession(ctx context.Context, token string) (persistence.Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// AuthService verifies credentials and manages session tokens. Tokens are
// opaque random identifiers stored server side; presenting one resolves the
// acting principal.
type AuthService struct {
	users       CredentialStore
	sessions    SessionStore
	sessionTTL  time.Duration
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// DefaultSessionTTL bounds session lifetime when no explicit TTL is configured.
const DefaultSessionTTL = 24 * time.Hour

// NewAuthService wires dependencies for authentication operations.
func NewAuthService(users CredentialStore, sessions SessionStore, sessionTTL time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		users:       users,
		sessions:    sessions,
		sessionTTL:  sessionTTL,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Verify checks an email/password pair against the stored argon2id hash.
// Unknown accounts and wrong passwords both yield ErrInvalidCredentials so the
// response does not reveal which accounts exist.
func (s *AuthService) Verify(ctx context.Context, email, password string) (Principal, error) {
	if s == nil || s.users == nil {
		return Principal{}, fmt.Errorf("user repository not configured")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	logger := s.loggerWith(ctx, "Verify", "email", email)

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.InfoContext(ctx, "credential verification failed", "error_kind", ErrorKind(ErrInvalidCredentials))
			return Principal{}, ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "user lookup failed", "error", err)
		return Principal{}, fmt.Errorf("looking up user: %w", err)
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			logger.InfoContext(ctx, "credential verification failed", "error_kind", ErrorKind(ErrInvalidCredentials))
			return Principal{}, ErrInvalidCredentials
		}
		logger.ErrorContext(ctx, "password hash verification failed", "error", err)
		return Principal{}, fmt.Errorf("verifying password: %w", err)
	}

	if user.Disabled {
		logger.InfoContext(ctx, "disabled account rejected", "user_id", user.ID)
		return Principal{}, ErrAccountDisabled
	}

	return Principal{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

// IssueToken creates a new session for an already verified principal.
func (s *AuthService) IssueToken(ctx context.Context, principal Principal) (persistence.Session, error) {
	if s == nil || s.sessions == nil {
		return persistence.Session{}, fmt.Errorf("session repository not configured")
	}

	now := s.now()
	session, err := s.sessions.CreateSession(ctx, persistence.Session{
		ID:        s.idGenerator(),
		UserID:    principal.UserID,
		Token:     s.idGenerator(),
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	})
	if err != nil {
		s.loggerWith(ctx, "IssueToken", "user_id", principal.UserID).ErrorContext(ctx, "session creation failed", "error", err)
		return persistence.Session{}, fmt.Errorf("creating session: %w", err)
	}

	s.loggerWith(ctx, "IssueToken", "user_id", principal.UserID, "session_id", session.ID).
		InfoContext(ctx, "session issued", "expires_at", session.ExpiresAt)
	return session, nil
}

// Authenticate verifies credentials and issues a session in one step.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (AuthenticateResult, error) {
	principal, err := s.Verify(ctx, email, password)
	if err != nil {
		return AuthenticateResult{}, err
	}
	session, err := s.IssueToken(ctx, principal)
	if err != nil {
		return AuthenticateResult{}, err
	}
	return AuthenticateResult{Principal: principal, Session: session}, nil
}

// ValidateSession resolves a token to its principal, rejecting expired and
// revoked sessions and sessions of accounts disabled after issuance.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (Principal, error) {
	if s == nil || s.sessions == nil || s.users == nil {
		return Principal{}, fmt.Errorf("auth service not configured")
	}
	if token == "" {
		return Principal{}, ErrUnauthorized
	}

	logger := s.loggerWith(ctx, "ValidateSession")

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		logger.ErrorContext(ctx, "session lookup failed", "error", err)
		return Principal{}, fmt.Errorf("looking up session: %w", err)
	}

	if session.RevokedAt != nil {
		return Principal{}, ErrSessionRevoked
	}
	if !s.now().Before(session.ExpiresAt) {
		return Principal{}, ErrSessionExpired
	}

	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Principal{}, ErrUnauthorized
		}
		logger.ErrorContext(ctx, "session user lookup failed", "error", err)
		return Principal{}, fmt.Errorf("looking up session user: %w", err)
	}
	if user.Disabled {
		return Principal{}, ErrAccountDisabled
	}

	return Principal{UserID: user.ID, IsAdmin: user.IsAdmin}, nil
}

// RevokeSession marks the session behind the token as revoked. Revoking an
// already revoked or unknown token yields ErrNotFound.
func (s *AuthService) RevokeSession(ctx context.Context, token string) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}

	session, err := s.sessions.RevokeSession(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) || errors.Is(err, persistence.ErrConstraintViolation) {
			return ErrNotFound
		}
		s.loggerWith(ctx, "RevokeSession").ErrorContext(ctx, "session revocation failed", "error", err)
		return fmt.Errorf("revoking session: %w", err)
	}

	s.loggerWith(ctx, "RevokeSession", "session_id", session.ID, "user_id", session.UserID).
		InfoContext(ctx, "session revoked")
	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry. Intended for a
// periodic maintenance sweep.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}
	if err := s.sessions.DeleteExpiredSessions(ctx, s.now()); err != nil {
		return fmt.Errorf("deleting expired sessions: %w", err)
	}
	return nil
}
