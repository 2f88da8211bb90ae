package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"todo-gether/internal/domain"
	"todo-gether/internal/repository"
)

// TaskService coordinates task level operations backed by repositories.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID int64, text, createdBy string) (*domain.Task, error)
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)
	ReorderTask(ctx context.Context, id int64, order int64) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error)
	Dashboard(ctx context.Context) ([]DashboardColumn, error)
}

// DashboardColumn groups one user's tasks, in display order.
type DashboardColumn struct {
	User           domain.User
	Tasks          []domain.Task
	CompletedCount int
}

type taskService struct {
	tasks repository.TaskRepository
	users repository.UserRepository
}

func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository) TaskService {
	return &taskService{
		tasks: tasks,
		users: users,
	}
}

// ValidateTaskText trims text and enforces the length bounds of a task.
func ValidateTaskText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.NewValidationError("Task cannot be empty")
	}
	if utf8.RuneCountInString(text) > domain.MaxTaskTextLength {
		return "", domain.NewValidationError(
			fmt.Sprintf("Task must be at most %d characters", domain.MaxTaskTextLength))
	}
	return text, nil
}

// ValidateOrder rejects order keys outside [-MaxOrder, MaxOrder].
func ValidateOrder(order int64) error {
	if order < -domain.MaxOrder || order > domain.MaxOrder {
		return domain.NewValidationError("Order value out of range")
	}
	return nil
}

func (s *taskService) CreateTask(ctx context.Context, ownerID int64, text, createdBy string) (*domain.Task, error) {
	text, err := ValidateTaskText(text)
	if err != nil {
		return nil, err
	}
	if ownerID == 0 {
		return nil, domain.NewValidationError("User ID required")
	}

	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Text:      text,
		OwnerID:   ownerID,
		CreatedBy: createdBy,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// UpdateTask ignores a blank text, keeping the current one.
func (s *taskService) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	if patch.Text != nil {
		if strings.TrimSpace(*patch.Text) == "" {
			patch.Text = nil
		} else {
			text, err := ValidateTaskText(*patch.Text)
			if err != nil {
				return nil, err
			}
			patch.Text = &text
		}
	}
	return s.tasks.Update(ctx, id, patch)
}

func (s *taskService) ReorderTask(ctx context.Context, id int64, order int64) (*domain.Task, error) {
	if err := ValidateOrder(order); err != nil {
		return nil, err
	}
	return s.tasks.SetOrder(ctx, id, order)
}

func (s *taskService) DeleteTask(ctx context.Context, id int64) error {
	return s.tasks.Delete(ctx, id)
}

func (s *taskService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	return s.tasks.ListByOwner(ctx, ownerID)
}

// Dashboard returns one column per user, in signup order.
func (s *taskService) Dashboard(ctx context.Context) ([]DashboardColumn, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	columns := make([]DashboardColumn, 0, len(users))
	for _, user := range users {
		tasks, err := s.tasks.ListByOwner(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		completed := 0
		for _, task := range tasks {
			if task.Completed {
				completed++
			}
		}
		columns = append(columns, DashboardColumn{
			User:           *sanitizeUser(&user),
			Tasks:          tasks,
			CompletedCount: completed,
		})
	}
	return columns, nil
}
