package entity

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	DueDate     Date       `json:"due_date"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

type CreateTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	DueDate     Date     `json:"due_date"`
	Priority    Priority `json:"priority"`
}

// Validate normalizes the request in place: the title is trimmed and an
// absent priority defaults to medium.
func (r *CreateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidTaskData)
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("%w: due_date is required", ErrInvalidTaskData)
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidTaskData)
	}
	return nil
}

// UpdateTaskRequest replaces every mutable field except completed.
type UpdateTaskRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	DueDate     Date     `json:"due_date"`
	Priority    Priority `json:"priority"`
}

func (r *UpdateTaskRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidTaskData)
	}
	if r.DueDate.IsZero() {
		return fmt.Errorf("%w: due_date is required", ErrInvalidTaskData)
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
	if !r.Priority.Valid() {
		return fmt.Errorf("%w: priority must be low, medium or high", ErrInvalidTaskData)
	}
	return nil
}

type SetCompletedRequest struct {
	Completed bool `json:"completed"`
}
