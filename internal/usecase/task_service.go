package usecase

import (
	"context"
	"log"
	"time"

	"github.com/taskcal/taskcal/internal/entity"
	"github.com/taskcal/taskcal/internal/repository"
)

// AuditPublisher publishes audit messages for successful mutations.
type AuditPublisher interface {
	PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error
}

type TaskService struct {
	taskRepo  repository.ITaskRepository
	auditRepo repository.ITaskAuditRepository
	audit     AuditPublisher
}

// NewTaskService wires the service. auditRepo and audit may be nil, in which
// case mutations are not audited and audit history reads come back empty.
func NewTaskService(taskRepo repository.ITaskRepository, auditRepo repository.ITaskAuditRepository, audit AuditPublisher) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		auditRepo: auditRepo,
		audit:     audit,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, req *entity.CreateTaskRequest) (*entity.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.sendAuditMessage(entity.ActionCreate, task.ID, task)

	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]entity.Task, error) {
	return s.taskRepo.List(ctx)
}

func (s *TaskService) UpdateTask(ctx context.Context, taskID int, req *entity.UpdateTaskRequest) (*entity.Task, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.Update(ctx, taskID, req)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	s.sendAuditMessage(entity.ActionUpdate, task.ID, task)

	return task, nil
}

func (s *TaskService) SetCompleted(ctx context.Context, taskID int, completed bool) (*entity.Task, error) {
	task, err := s.taskRepo.SetCompleted(ctx, taskID, completed)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}

	s.sendAuditMessage(entity.ActionComplete, task.ID, task)

	return task, nil
}

// DeleteTask soft-deletes the task. Deleting an already-deleted or unknown id
// succeeds without error; the audit trail only records deletes that touched a
// row.
func (s *TaskService) DeleteTask(ctx context.Context, taskID int) error {
	affected, err := s.taskRepo.SoftDelete(ctx, taskID)
	if err != nil {
		return err
	}

	if affected > 0 {
		s.sendAuditMessage(entity.ActionDelete, taskID, nil)
	}

	return nil
}

// ListTaskAudit returns the recorded audit trail for a task, newest first.
// The id does not have to name a live task; a deleted task keeps its history.
func (s *TaskService) ListTaskAudit(ctx context.Context, taskID int) ([]entity.TaskAudit, error) {
	if s.auditRepo == nil {
		return []entity.TaskAudit{}, nil
	}

	audits, err := s.auditRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if audits == nil {
		audits = []entity.TaskAudit{}
	}
	return audits, nil
}

func (s *TaskService) sendAuditMessage(action entity.ActionType, taskID int, task *entity.Task) {
	if s.audit == nil {
		return
	}

	msg := &entity.AuditMessage{
		Action:    action,
		EntityID:  taskID,
		Timestamp: time.Now(),
	}
	if task != nil {
		msg.Values = map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"due_date":    task.DueDate.String(),
			"priority":    task.Priority,
			"completed":   task.Completed,
		}
	}

	// Fire and forget: an audit failure must not fail the mutation.
	go func() {
		if err := s.audit.PublishAuditMessage(context.Background(), msg); err != nil {
			log.Printf("audit publish failed: %v", err)
		}
	}()
}
