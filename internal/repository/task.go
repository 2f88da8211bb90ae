package repository

import (
	"context"

	"todo-gether/internal/domain"
)

// TaskRepository exposes persistence operations for tasks.
type TaskRepository interface {
	Init(ctx context.Context) error
	// Create stores the task under task.OwnerID, assigning ID, timestamps and
	// Order (one past the owner's current maximum, or 1).
	Create(ctx context.Context, task *domain.Task) error
	Get(ctx context.Context, id int64) (*domain.Task, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error)
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)
	SetOrder(ctx context.Context, id int64, order int64) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}
