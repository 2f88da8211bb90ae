package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-gether/internal/domain"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	alice := s.mustUser(t, "alice")
	assert.Positive(t, alice.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	byName, err := s.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)
	assert.Equal(t, "hash-alice", byName.PasswordHash)
	assert.True(t, alice.CreatedAt.Equal(byName.CreatedAt))

	byID, err := s.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	s.mustUser(t, "alice")

	_, err := s.users.Create(context.Background(), &domain.User{Username: "alice", PasswordHash: "other"})
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestUserRepository_UsernameIsCaseSensitive(t *testing.T) {
	s := newTestStore(t)
	s.mustUser(t, "alice")

	_, err := s.users.Create(context.Background(), &domain.User{Username: "Alice", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = s.users.GetByUsername(context.Background(), "ALICE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.users.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.users.GetByUsername(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_ListInSignupOrder(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"carol", "alice", "bob"} {
		s.mustUser(t, name)
	}

	users, err := s.users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "carol", users[0].Username)
	assert.Equal(t, "alice", users[1].Username)
	assert.Equal(t, "bob", users[2].Username)
}

func TestUserRepository_DeleteWithTasksIsRestricted(t *testing.T) {
	s := newTestStore(t)
	alice := s.mustUser(t, "alice")
	s.mustTask(t, alice, "keep me")

	_, err := s.db.Exec(`DELETE FROM user WHERE id = ?`, alice.ID)
	require.Error(t, err)
	assert.True(t, isForeignKeyViolation(err), "unexpected error: %v", err)

	_, err = s.users.GetByID(context.Background(), alice.ID)
	assert.NoError(t, err)
}
