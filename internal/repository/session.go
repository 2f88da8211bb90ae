package repository

import (
	"context"
	"time"

	"todo-gether/internal/domain"
)

// SessionRepository stores the server side of issued session tokens.
type SessionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, session *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
