package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/taskcal/taskcal/internal/api/handlers"
	"github.com/taskcal/taskcal/internal/usecase"
)

func NewRouter(taskService *usecase.TaskService) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// The browser client may be served from anywhere.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}))

	taskHandler := handlers.NewTaskHandler(taskService)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.ListTasks)
		r.Post("/", taskHandler.CreateTask)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", taskHandler.UpdateTask)
			r.Patch("/complete", taskHandler.SetCompleted)
			r.Get("/audit", taskHandler.GetTaskAudit)
			r.Delete("/", taskHandler.DeleteTask)
		})
	})

	return r
}
