package repository

import (
	"context"

	"github.com/taskcal/taskcal/internal/entity"
)

// ITaskRepository is the storage contract for tasks. Update and SetCompleted
// return (nil, nil) when no active row matches the id; SoftDelete reports the
// number of rows affected so callers can distinguish a no-op delete.
type ITaskRepository interface {
	Create(ctx context.Context, req *entity.CreateTaskRequest) (*entity.Task, error)
	List(ctx context.Context) ([]entity.Task, error)
	Update(ctx context.Context, id int, req *entity.UpdateTaskRequest) (*entity.Task, error)
	SetCompleted(ctx context.Context, id int, completed bool) (*entity.Task, error)
	SoftDelete(ctx context.Context, id int) (int64, error)
}

type ITaskAuditRepository interface {
	Create(ctx context.Context, audit *entity.TaskAudit) error
	ListByTask(ctx context.Context, taskID int) ([]entity.TaskAudit, error)
}
