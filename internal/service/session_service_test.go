package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-gether/internal/domain"
)

func newSessionService(t *testing.T, f *fixture, secret string, now *time.Time) *sessionService {
	t.Helper()
	svc, ok := NewSessionService(f.sessions, f.users, secret, time.Hour).(*sessionService)
	require.True(t, ok)
	svc.now = func() time.Time { return *now }
	return svc
}

func TestSessionService_StartAndResolve(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	now := time.Now().UTC().Truncate(time.Second)
	svc := newSessionService(t, f, "test-secret", &now)

	issued, err := svc.Start(ctx, alice)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.True(t, issued.ExpiresAt.Equal(now.Add(time.Hour)))

	user, err := svc.Resolve(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)
}

func TestSessionService_DefaultTTL(t *testing.T) {
	f := newFixture(t)
	svc := NewSessionService(f.sessions, f.users, "s", 0)
	assert.Equal(t, 7*24*time.Hour, svc.TTL())
}

func TestSessionService_RejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	now := time.Now().UTC().Truncate(time.Second)
	svc := newSessionService(t, f, "test-secret", &now)

	issued, err := svc.Start(ctx, alice)
	require.NoError(t, err)

	other := newSessionService(t, f, "other-secret", &now)
	_, err = other.Resolve(ctx, issued.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "foreign signature")

	parts := strings.Split(issued.Token, ".")
	require.Len(t, parts, 3)
	parts[1] = "x" + parts[1][1:]
	tampered := strings.Join(parts, ".")
	for _, token := range []string{"", "not-a-jwt", tampered} {
		_, err := svc.Resolve(ctx, token)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated, "token %q", token)
	}
}

func TestSessionService_Expiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	now := time.Now().UTC().Truncate(time.Second)
	svc := newSessionService(t, f, "test-secret", &now)

	issued, err := svc.Start(ctx, alice)
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	_, err = svc.Resolve(ctx, issued.Token)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = svc.Resolve(ctx, issued.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSessionService_End(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	now := time.Now().UTC().Truncate(time.Second)
	svc := newSessionService(t, f, "test-secret", &now)

	first, err := svc.Start(ctx, alice)
	require.NoError(t, err)
	second, err := svc.Start(ctx, alice)
	require.NoError(t, err)

	require.NoError(t, svc.End(ctx, first.Token))
	_, err = svc.Resolve(ctx, first.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Resolve(ctx, second.Token)
	assert.NoError(t, err, "other sessions of the same user stay valid")

	assert.NoError(t, svc.End(ctx, first.Token), "ending twice is harmless")
	assert.NoError(t, svc.End(ctx, "garbage"))
	assert.NoError(t, svc.End(ctx, ""))
}

func TestSessionService_StartPurgesExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	now := time.Now().UTC().Truncate(time.Second)
	svc := newSessionService(t, f, "test-secret", &now)

	stale, err := svc.Start(ctx, alice)
	require.NoError(t, err)
	staleClaims, err := svc.parse(stale.Token)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = svc.Start(ctx, alice)
	require.NoError(t, err)

	_, err = f.sessions.Get(ctx, staleClaims.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
