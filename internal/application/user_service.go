package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/example/booking-platform/internal/cache"
	"github.com/example/booking-platform/internal/persistence"
)

const minPasswordLength = 8

// UserStore captures the user persistence needed by the user service.
type UserStore interface {
	CreateUser(ctx context.Context, user persistence.User) error
	UpdateUser(ctx context.Context, user persistence.User) error
	GetUser(ctx context.Context, id string) (persistence.User, error)
	GetUserByEmail(ctx context.Context, email string) (persistence.User, error)
}

// UserService owns account registration and profile maintenance.
type UserService struct {
	users       UserStore
	invalidator *cache.Invalidator
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewUserService wires dependencies for account operations.
func NewUserService(users UserStore, invalidator *cache.Invalidator, idGenerator func() string, now func() time.Time, logger *slog.Logger) *UserService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{
		users:       users,
		invalidator: invalidator,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// Register creates an account with an argon2id password hash. Duplicate emails
// surface as a field level validation error.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (persistence.User, error) {
	if s == nil || s.users == nil {
		return persistence.User{}, fmt.Errorf("user repository not configured")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	displayName := strings.TrimSpace(input.DisplayName)
	logger := s.loggerWith(ctx, "Register", "email", email)

	vErr := &ValidationError{}
	if email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		vErr.add("email", "email is not a valid address")
	}
	if len(input.Password) < minPasswordLength {
		vErr.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if displayName == "" {
		vErr.add("display_name", "display_name is required")
	}
	if vErr.HasErrors() {
		return persistence.User{}, vErr
	}

	hash, err := CreatePasswordHash(input.Password)
	if err != nil {
		logger.ErrorContext(ctx, "password hashing failed", "error", err)
		return persistence.User{}, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	user := persistence.User{
		ID:           s.idGenerator(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			dup := &ValidationError{}
			dup.add("email", "email is already registered")
			return persistence.User{}, dup
		}
		logger.ErrorContext(ctx, "user creation failed", "error", err)
		return persistence.User{}, fmt.Errorf("creating user: %w", err)
	}

	logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	user.PasswordHash = ""
	return user, nil
}

// GetProfile returns the caller's own account, or any account for admins.
func (s *UserService) GetProfile(ctx context.Context, principal Principal, userID string) (persistence.User, error) {
	if s == nil || s.users == nil {
		return persistence.User{}, fmt.Errorf("user repository not configured")
	}
	if userID != principal.UserID && !principal.IsAdmin {
		return persistence.User{}, ErrNotFound
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.User{}, ErrNotFound
		}
		return persistence.User{}, fmt.Errorf("looking up user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile changes mutable profile fields and evicts every cached value
// scoped to the user once the write is committed.
func (s *UserService) UpdateProfile(ctx context.Context, params UpdateProfileParams) (persistence.User, error) {
	if s == nil || s.users == nil {
		return persistence.User{}, fmt.Errorf("user repository not configured")
	}

	if params.UserID != params.Principal.UserID && !params.Principal.IsAdmin {
		return persistence.User{}, ErrNotFound
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if displayName == "" {
		vErr := &ValidationError{}
		vErr.add("display_name", "display_name is required")
		return persistence.User{}, vErr
	}

	logger := s.loggerWith(ctx, "UpdateProfile", "user_id", params.UserID)

	user, err := s.users.GetUser(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.User{}, ErrNotFound
		}
		logger.ErrorContext(ctx, "user lookup failed", "error", err)
		return persistence.User{}, fmt.Errorf("looking up user: %w", err)
	}

	user.DisplayName = displayName
	user.UpdatedAt = s.now()
	if err := s.users.UpdateUser(ctx, user); err != nil {
		logger.ErrorContext(ctx, "profile update failed", "error", err)
		return persistence.User{}, fmt.Errorf("updating user: %w", err)
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, cache.Mutation{
			Kind:   cache.MutationUserChanged,
			UserID: user.ID,
		})
	}

	logger.InfoContext(ctx, "profile updated")
	user.PasswordHash = ""
	return user, nil
}
