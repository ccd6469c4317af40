package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskcal/taskcal/internal/entity"
)

const taskColumns = "id, title, description, due_date, priority, completed, created_at, updated_at, deleted_at"

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func (r *TaskRepository) Create(ctx context.Context, req *entity.CreateTaskRequest) (*entity.Task, error) {
	query := `
	INSERT INTO tasks (title, description, due_date, priority)
	VALUES ($1, $2, $3, $4)
	RETURNING ` + taskColumns

	var task entity.Task
	err := r.db.QueryRow(ctx, query,
		req.Title,
		req.Description,
		req.DueDate,
		req.Priority,
	).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// List returns every active task, most recently created first.
func (r *TaskRepository) List(ctx context.Context) ([]entity.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE deleted_at IS NULL
	ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]entity.Task, 0)
	for rows.Next() {
		var task entity.Task
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.DueDate,
			&task.Priority,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// Update replaces the mutable fields of an active task. Completed is left
// untouched. Returns (nil, nil) when no active row matches.
func (r *TaskRepository) Update(ctx context.Context, id int, req *entity.UpdateTaskRequest) (*entity.Task, error) {
	query := `
	UPDATE tasks
	SET title = $1,
	    description = $2,
	    due_date = $3,
	    priority = $4,
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = $5 AND deleted_at IS NULL
	RETURNING ` + taskColumns

	var task entity.Task
	err := r.db.QueryRow(ctx, query,
		req.Title,
		req.Description,
		req.DueDate,
		req.Priority,
		id,
	).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &task, nil
}

func (r *TaskRepository) SetCompleted(ctx context.Context, id int, completed bool) (*entity.Task, error) {
	query := `
	UPDATE tasks
	SET completed = $1,
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = $2 AND deleted_at IS NULL
	RETURNING ` + taskColumns

	var task entity.Task
	err := r.db.QueryRow(ctx, query, completed, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Priority,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &task, nil
}

// SoftDelete marks the row deleted regardless of its current deleted_at
// state, so repeated deletes of the same id succeed with zero rows affected.
func (r *TaskRepository) SoftDelete(ctx context.Context, id int) (int64, error) {
	query := `
	UPDATE tasks
	SET deleted_at = CURRENT_TIMESTAMP
	WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
