package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-gether/internal/domain"
	"todo-gether/internal/repository"
)

// Deleting a user that still owns tasks is refused by the foreign key.
const createTasksTable = `
CREATE TABLE IF NOT EXISTS todo (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task TEXT NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT 0,
	user_id INTEGER NOT NULL REFERENCES user(id) ON DELETE RESTRICT,
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	"order" INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_todo_user_order ON todo(user_id, "order", id);
`

const selectTaskColumns = `
SELECT id, task, completed, user_id, created_by, created_at, updated_at, "order"
FROM todo`

type TaskRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

func (r *TaskRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTasksTable); err != nil {
		return fmt.Errorf("create todo table: %w", err)
	}
	return nil
}

// Create computes the order key inside the INSERT itself, so two creates for
// the same owner never observe the same maximum.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	now := r.now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
INSERT INTO todo (task, completed, user_id, created_by, created_at, updated_at, "order")
SELECT ?, ?, ?, ?, ?, ?, COALESCE(MAX("order"), 0) + 1
FROM todo
WHERE user_id = ?`,
		task.Text,
		task.Completed,
		task.OwnerID,
		task.CreatedBy,
		now,
		now,
		task.OwnerID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("owner %d: %w", task.OwnerID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	created, err := getTask(ctx, tx, id)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit task insert: %w", err)
	}

	*task = *created
	return nil
}

func (r *TaskRepository) Get(ctx context.Context, id int64) (*domain.Task, error) {
	return getTask(ctx, r.db, id)
}

// ListByOwner returns the owner's tasks by order key, then id.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTaskColumns+`
WHERE user_id = ?
ORDER BY "order" ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// Update applies only the fields set in patch and always refreshes updated_at.
func (r *TaskRepository) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	return r.mutate(ctx, id, `
UPDATE todo
SET task = COALESCE(?, task), completed = COALESCE(?, completed), updated_at = ?
WHERE id = ?`,
		nullString(patch.Text),
		nullBool(patch.Completed),
		r.now().UTC(),
		id,
	)
}

// SetOrder overwrites the order key. Collisions are not resolved here; the
// listing breaks ties by id.
func (r *TaskRepository) SetOrder(ctx context.Context, id int64, order int64) (*domain.Task, error) {
	return r.mutate(ctx, id, `
UPDATE todo
SET "order" = ?, updated_at = ?
WHERE id = ?`,
		order,
		r.now().UTC(),
		id,
	)
}

// Delete removes the task. Remaining order keys are not renumbered.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todo WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("task delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *TaskRepository) mutate(ctx context.Context, id int64, statement string, args ...any) (*domain.Task, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("task update rows affected: %w", err)
	}
	if aff == 0 {
		return nil, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}

	task, err := getTask(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit task update: %w", err)
	}
	return task, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTask(ctx context.Context, q queryRower, id int64) (*domain.Task, error) {
	row := q.QueryRowContext(ctx, selectTaskColumns+`
WHERE id = ?`,
		id,
	)
	return scanTask(row)
}

func scanTask(scanner rowScanner) (*domain.Task, error) {
	var task domain.Task
	if err := scanner.Scan(
		&task.ID,
		&task.Text,
		&task.Completed,
		&task.OwnerID,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.Order,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}

	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
