package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/booking-platform/internal/persistence"
	"github.com/example/booking-platform/internal/testfixtures"
)

func addSession(t *testing.T, harness *testfixtures.SQLiteHarness, id, userID, token string, expiresAt time.Time) {
	t.Helper()

	_, err := harness.Sessions.CreateSession(context.Background(), persistence.Session{
		ID:        id,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateSession(%s) failed: %v", id, err)
	}
}

func TestSessionRepository_CreateAndGetSession(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	user := testfixtures.NewUser()
	if err := harness.Users.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	expires := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	addSession(t, harness, "session1", user.ID, "token-abc", expires)

	session, err := harness.Sessions.GetSession(ctx, "token-abc")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session.UserID != user.ID || !session.ExpiresAt.Equal(expires) {
		t.Errorf("unexpected session: %+v", session)
	}
	if session.RevokedAt != nil {
		t.Errorf("expected fresh session to be unrevoked")
	}

	if _, err := harness.Sessions.GetSession(ctx, "unknown-token"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_RevokeSession(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	user := testfixtures.NewUser()
	if err := harness.Users.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	addSession(t, harness, "session1", user.ID, "token-abc", time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))

	revokedAt := time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC)
	revoked, err := harness.Sessions.RevokeSession(ctx, "token-abc", revokedAt)
	if err != nil {
		t.Fatalf("RevokeSession failed: %v", err)
	}
	if revoked.RevokedAt == nil || !revoked.RevokedAt.Equal(revokedAt) {
		t.Errorf("expected revoked_at %v, got %v", revokedAt, revoked.RevokedAt)
	}

	// The row is kept; revoking again finds no unrevoked session.
	if _, err := harness.Sessions.RevokeSession(ctx, "token-abc", revokedAt); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for second revocation, got %v", err)
	}
	if _, err := harness.Sessions.GetSession(ctx, "token-abc"); err != nil {
		t.Fatalf("expected revoked session to remain readable, got %v", err)
	}
}

func TestSessionRepository_DeleteExpiredSessions(t *testing.T) {
	harness := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	user := testfixtures.NewUser()
	if err := harness.Users.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	addSession(t, harness, "stale", user.ID, "token-stale", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	addSession(t, harness, "fresh", user.ID, "token-fresh", time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC))

	if err := harness.Sessions.DeleteExpiredSessions(ctx, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("DeleteExpiredSessions failed: %v", err)
	}

	if _, err := harness.Sessions.GetSession(ctx, "token-stale"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected stale session to be deleted, got %v", err)
	}
	if _, err := harness.Sessions.GetSession(ctx, "token-fresh"); err != nil {
		t.Fatalf("expected fresh session to survive, got %v", err)
	}
}
