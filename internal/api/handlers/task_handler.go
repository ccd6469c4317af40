package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/taskcal/taskcal/internal/entity"
	"github.com/taskcal/taskcal/internal/usecase"
)

type TaskHandler struct {
	taskService *usecase.TaskService
}

func NewTaskHandler(taskService *usecase.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req entity.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, decodeMessage(err))
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), &req)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidTaskData) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("create task: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to create task")
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		log.Printf("list tasks: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch tasks")
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req entity.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, decodeMessage(err))
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), taskID, &req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidTaskData):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, entity.ErrTaskNotFound):
			writeError(w, http.StatusNotFound, "task not found")
		default:
			log.Printf("update task %d: %v", taskID, err)
			writeError(w, http.StatusInternalServerError, "Failed to update task")
		}
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var req entity.SetCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	task, err := h.taskService.SetCompleted(r.Context(), taskID, req.Completed)
	if err != nil {
		if errors.Is(err, entity.ErrTaskNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		log.Printf("toggle task %d: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "Failed to toggle task")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask is deliberately idempotent: deleting an unknown or already
// deleted id still returns 200.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), taskID); err != nil {
		log.Printf("delete task %d: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "Failed to delete task")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}

// GetTaskAudit returns the audit trail for a task, newest first. Unknown and
// deleted ids return an empty list rather than 404 so history stays readable
// after a delete.
func (h *TaskHandler) GetTaskAudit(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	audits, err := h.taskService.ListTaskAudit(r.Context(), taskID)
	if err != nil {
		log.Printf("audit for task %d: %v", taskID, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch task audit")
		return
	}

	writeJSON(w, http.StatusOK, audits)
}

// decodeMessage keeps field-level validation detail (a malformed due_date
// fails inside json decoding) without leaking other decoder internals.
func decodeMessage(err error) string {
	if errors.Is(err, entity.ErrInvalidTaskData) {
		return err.Error()
	}
	return "invalid JSON"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
