package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"todo-gether/internal/domain"
)

// stepClock advances by one second on every call.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testStore struct {
	db       *sql.DB
	users    *UserRepository
	tasks    *TaskRepository
	sessions *SessionRepository
	clock    *stepClock
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := newStepClock()
	s := &testStore{
		db:       db,
		users:    &UserRepository{db: db, now: clock.Now},
		tasks:    &TaskRepository{db: db, now: clock.Now},
		sessions: &SessionRepository{db: db},
		clock:    clock,
	}

	ctx := context.Background()
	require.NoError(t, s.users.Init(ctx))
	require.NoError(t, s.tasks.Init(ctx))
	require.NoError(t, s.sessions.Init(ctx))
	return s
}

func (s *testStore) mustUser(t *testing.T, username string) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, PasswordHash: "hash-" + username}
	_, err := s.users.Create(context.Background(), user)
	require.NoError(t, err)
	return user
}

func (s *testStore) mustTask(t *testing.T, owner *domain.User, text string) *domain.Task {
	t.Helper()
	task := &domain.Task{Text: text, OwnerID: owner.ID, CreatedBy: owner.Username}
	require.NoError(t, s.tasks.Create(context.Background(), task))
	return task
}
