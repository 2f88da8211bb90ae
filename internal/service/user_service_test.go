package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-gether/internal/domain"
)

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		confirm  string
		wantErr  string
	}{
		{"ok", "alice", "secret1", "secret1", ""},
		{"trims", "  alice ", " secret1 ", "secret1  ", ""},
		{"missing username", "   ", "secret1", "secret1", "Username and password required"},
		{"missing password", "alice", "", "", "Username and password required"},
		{"mismatch before length", "alice", "abc", "abd", "Passwords do not match"},
		{"weak", "alice", "abc", "abc", "Password must be at least 6 characters"},
		{"long username", strings.Repeat("a", 81), "secret1", "secret1", "Username must be at most 80 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input, err := ValidateSignup(tc.username, tc.password, tc.confirm)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "alice", input.Username)
				assert.Equal(t, "secret1", input.Password)
				return
			}
			var validationErr *domain.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.wantErr, validationErr.Message)
		})
	}
}

func TestUserService_RegisterHidesHash(t *testing.T) {
	f := newFixture(t)

	user := f.register(t, "alice")
	assert.Positive(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	stored, err := f.users.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestUserService_HashesAreSalted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")
	f.register(t, "bob")

	alice, err := f.users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	bob, err := f.users.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.NotEqual(t, alice.PasswordHash, bob.PasswordHash)
}

func TestUserService_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	_, err := f.userService.Register(context.Background(), "alice", "another1", "another1")
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestUserService_ValidationPrecedesStorage(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	// a taken username with a mismatched confirmation reports the mismatch
	_, err := f.userService.Register(context.Background(), "alice", "secret1", "secret2")
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
}

func TestUserService_Authenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	registered := f.register(t, "alice")

	user, err := f.userService.Authenticate(ctx, " alice ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = f.userService.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.userService.Authenticate(ctx, "mallory", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	var validationErr *domain.ValidationError
	_, err = f.userService.Authenticate(ctx, "", "secret1")
	assert.ErrorAs(t, err, &validationErr)
}

func TestUserService_List(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	f.register(t, "bob")

	users, err := f.userService.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, user := range users {
		assert.Empty(t, user.PasswordHash)
	}
}
