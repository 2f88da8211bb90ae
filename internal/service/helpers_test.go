package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"todo-gether/internal/domain"
	"todo-gether/internal/repository"
	"todo-gether/internal/repository/sqlite"
)

type fixture struct {
	users    repository.UserRepository
	tasks    repository.TaskRepository
	sessions repository.SessionRepository

	userService UserService
	taskService TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := sqlite.Open(sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		users:    sqlite.NewUserRepository(db),
		tasks:    sqlite.NewTaskRepository(db),
		sessions: sqlite.NewSessionRepository(db),
	}
	ctx := context.Background()
	require.NoError(t, f.users.Init(ctx))
	require.NoError(t, f.tasks.Init(ctx))
	require.NoError(t, f.sessions.Init(ctx))

	f.userService = NewUserService(f.users, WithBcryptCost(bcrypt.MinCost))
	f.taskService = NewTaskService(f.tasks, f.users)
	return f
}

func (f *fixture) register(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := f.userService.Register(context.Background(), username, "secret1", "secret1")
	require.NoError(t, err)
	return user
}
