// Package client is the adapter between a frontend and the task store API.
// It keeps the working copy of the task collection in memory, mirrors it to a
// local cache file, and derives the per-day calendar annotations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/taskcal/taskcal/internal/entity"
)

const DefaultBaseURL = "http://localhost:5000"

// API is an HTTP client for the task store. Failed calls have no side
// effects; callers only fold results into local state on success.
type API struct {
	baseURL string
	http    *http.Client
}

func NewAPI(baseURL string) *API {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

func (a *API) CreateTask(ctx context.Context, req *entity.CreateTaskRequest) (*entity.Task, error) {
	var task entity.Task
	if err := a.do(ctx, http.MethodPost, "/tasks", req, http.StatusCreated, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (a *API) ListTasks(ctx context.Context) ([]entity.Task, error) {
	var tasks []entity.Task
	if err := a.do(ctx, http.MethodGet, "/tasks", nil, http.StatusOK, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (a *API) UpdateTask(ctx context.Context, id int, req *entity.UpdateTaskRequest) (*entity.Task, error) {
	var task entity.Task
	if err := a.do(ctx, http.MethodPut, "/tasks/"+strconv.Itoa(id), req, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (a *API) SetCompleted(ctx context.Context, id int, completed bool) (*entity.Task, error) {
	req := entity.SetCompletedRequest{Completed: completed}
	var task entity.Task
	if err := a.do(ctx, http.MethodPatch, "/tasks/"+strconv.Itoa(id)+"/complete", req, http.StatusOK, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (a *API) DeleteTask(ctx context.Context, id int) error {
	return a.do(ctx, http.MethodDelete, "/tasks/"+strconv.Itoa(id), nil, http.StatusOK, nil)
}

func (a *API) do(ctx context.Context, method, path string, body any, wantStatus int, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("could not connect to backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return entity.ErrTaskNotFound
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("server: %s", body.Error)
	}
	return fmt.Errorf("server: unexpected status %d", resp.StatusCode)
}
