package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskcal/taskcal/internal/api"
	"github.com/taskcal/taskcal/internal/entity"
	"github.com/taskcal/taskcal/internal/repository"
	"github.com/taskcal/taskcal/internal/usecase"
)

// memRepo is an in-memory ITaskRepository with real soft-delete semantics, so
// handler tests can exercise full request flows without Postgres.
type memRepo struct {
	nextID int
	tasks  map[int]*entity.Task
}

var _ repository.ITaskRepository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{nextID: 1, tasks: map[int]*entity.Task{}}
}

func (r *memRepo) Create(_ context.Context, req *entity.CreateTaskRequest) (*entity.Task, error) {
	now := time.Now()
	task := &entity.Task{
		ID:          r.nextID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.tasks[task.ID] = task
	r.nextID++
	copy := *task
	return &copy, nil
}

func (r *memRepo) List(_ context.Context) ([]entity.Task, error) {
	tasks := make([]entity.Task, 0)
	for id := r.nextID - 1; id >= 1; id-- {
		if t, ok := r.tasks[id]; ok && t.DeletedAt == nil {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (r *memRepo) Update(_ context.Context, id int, req *entity.UpdateTaskRequest) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.DeletedAt != nil {
		return nil, nil
	}
	t.Title = req.Title
	t.Description = req.Description
	t.DueDate = req.DueDate
	t.Priority = req.Priority
	t.UpdatedAt = time.Now()
	copy := *t
	return &copy, nil
}

func (r *memRepo) SetCompleted(_ context.Context, id int, completed bool) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.DeletedAt != nil {
		return nil, nil
	}
	t.Completed = completed
	t.UpdatedAt = time.Now()
	copy := *t
	return &copy, nil
}

func (r *memRepo) SoftDelete(_ context.Context, id int) (int64, error) {
	t, ok := r.tasks[id]
	if !ok {
		return 0, nil
	}
	now := time.Now()
	t.DeletedAt = &now
	return 1, nil
}

// memAuditRepo is an in-memory ITaskAuditRepository. Tests seed it directly;
// the queue worker is what fills the real one.
type memAuditRepo struct {
	audits []entity.TaskAudit
}

var _ repository.ITaskAuditRepository = (*memAuditRepo)(nil)

func (r *memAuditRepo) Create(_ context.Context, audit *entity.TaskAudit) error {
	r.audits = append(r.audits, *audit)
	return nil
}

func (r *memAuditRepo) ListByTask(_ context.Context, taskID int) ([]entity.TaskAudit, error) {
	var audits []entity.TaskAudit
	for i := len(r.audits) - 1; i >= 0; i-- {
		if r.audits[i].EntityID == taskID {
			audits = append(audits, r.audits[i])
		}
	}
	return audits, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	srv, _ := newTestServerWithAudit(t)
	return srv
}

func newTestServerWithAudit(t *testing.T) (*httptest.Server, *memAuditRepo) {
	t.Helper()
	auditRepo := &memAuditRepo{}
	service := usecase.NewTaskService(newMemRepo(), auditRepo, nil)
	srv := httptest.NewServer(api.NewRouter(service))
	t.Cleanup(srv.Close)
	return srv, auditRepo
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func TestTaskLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Create.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title":    "Pay rent",
		"due_date": "2025-04-01",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created entity.Task
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotZero(t, created.ID)
	assert.False(t, created.Completed)
	assert.Equal(t, entity.PriorityHigh, created.Priority)
	assert.Equal(t, "2025-04-01", created.DueDate.String())

	// Complete it.
	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/tasks/1/complete", map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var completed entity.Task
	require.NoError(t, json.Unmarshal(body, &completed))
	assert.True(t, completed.Completed)
	assert.Equal(t, created.ID, completed.ID)
	assert.False(t, completed.UpdatedAt.Before(created.UpdatedAt))

	// Delete it.
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/tasks/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Task deleted"}`, string(body))

	// Gone from the listing.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestToggleTwiceRestoresCompleted(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title":    "Water plants",
		"due_date": "2025-04-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created entity.Task
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/tasks/1/complete", map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var first entity.Task
	require.NoError(t, json.Unmarshal(body, &first))
	require.True(t, first.Completed)

	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/tasks/1/complete", map[string]any{"completed": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second entity.Task
	require.NoError(t, json.Unmarshal(body, &second))

	assert.False(t, second.Completed, "second toggle must restore the original completed value")
	assert.False(t, first.UpdatedAt.Before(created.UpdatedAt))
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestListOrderedByIDDesc(t *testing.T) {
	srv := newTestServer(t)

	for _, title := range []string{"first", "second", "third"} {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
			"title":    title,
			"due_date": "2025-04-01",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tasks []entity.Task
	require.NoError(t, json.Unmarshal(body, &tasks))
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "first", tasks[2].Title)
}

func TestCreateValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title":    "   ",
		"due_date": "2025-04-01",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "error")

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title":    "x",
		"due_date": "not-a-date",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateNonexistentIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPut, srv.URL+"/tasks/42", map[string]any{
		"title":    "x",
		"due_date": "2025-04-01",
		"priority": "low",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"task not found"}`, string(body))
}

func TestUpdateDoesNotTouchCompleted(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title":    "x",
		"due_date": "2025-04-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created entity.Task
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/tasks/1/complete", map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPut, srv.URL+"/tasks/1", map[string]any{
		"title":    "renamed",
		"due_date": "2025-05-01",
		"priority": "low",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated entity.Task
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "renamed", updated.Title)
	assert.True(t, updated.Completed, "update must not reset completion")
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt), "update must advance updated_at")
}

func TestGetTaskAudit(t *testing.T) {
	srv, auditRepo := newTestServerWithAudit(t)

	now := time.Now()
	for i, action := range []entity.ActionType{entity.ActionCreate, entity.ActionComplete} {
		auditRepo.audits = append(auditRepo.audits, entity.TaskAudit{
			ID:         i + 1,
			Action:     action,
			EntityType: "task",
			EntityID:   1,
			ChangedAt:  now,
		})
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/tasks/1/audit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var audits []entity.TaskAudit
	require.NoError(t, json.Unmarshal(body, &audits))
	require.Len(t, audits, 2)
	assert.Equal(t, entity.ActionComplete, audits[0].Action)
	assert.Equal(t, entity.ActionCreate, audits[1].Action)

	// A task with no history gets an empty list, not null and not 404.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/tasks/42/audit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))
}

func TestDeleteIsIdempotent(t *testing.T) {
	srv := newTestServer(t)

	// Deleting a task that never existed still reports success.
	resp, body := doJSON(t, http.MethodDelete, srv.URL+"/tasks/999", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Task deleted"}`, string(body))

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]any{
		"title":    "x",
		"due_date": "2025-04-01",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for i := 0; i < 2; i++ {
		resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/tasks/1", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// A deleted task cannot be completed.
	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/tasks/1/complete", map[string]any{"completed": true})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
