package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/taskcal/taskcal/internal/api"
	"github.com/taskcal/taskcal/internal/infrastructure/client"
	"github.com/taskcal/taskcal/internal/rabbitmq"
	"github.com/taskcal/taskcal/internal/repository"
	"github.com/taskcal/taskcal/internal/usecase"
	"github.com/taskcal/taskcal/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCfg := client.PostgresConfig{
		Host:     envOr("DB_HOST", "localhost"),
		Port:     envOr("DB_PORT", "5432"),
		User:     envOr("DB_USER", "postgres"),
		Password: envOr("DB_PASSWORD", "postgres"),
		DBName:   envOr("DB_NAME", "taskcal"),
		SSLMode:  envOr("DB_SSLMODE", "disable"),
	}

	if err := runMigrations(pgCfg.URL()); err != nil {
		log.Fatal("migrations failed: ", err)
	}

	db, err := client.NewPostgresPool(ctx, pgCfg)
	if err != nil {
		log.Fatal("database connection failed: ", err)
	}
	defer db.Close()
	log.Println("connected to postgres")

	taskRepo := repository.NewTaskRepository(db)
	auditRepo := repository.NewTaskAuditRepository(db)

	var wg sync.WaitGroup

	// The audit trail is optional: without RABBITMQ_HOST the service runs
	// with auditing off.
	var audit usecase.AuditPublisher
	if host := os.Getenv("RABBITMQ_HOST"); host != "" {
		amqpURL := fmt.Sprintf("amqp://%s:%s@%s:%s/",
			envOr("RABBITMQ_USER", "guest"),
			envOr("RABBITMQ_PASSWORD", "guest"),
			host,
			envOr("RABBITMQ_PORT", "5672"))

		mq, err := rabbitmq.NewClient(amqpURL)
		if err != nil {
			log.Fatal("rabbitmq connection failed: ", err)
		}
		defer mq.Close()
		log.Println("connected to rabbitmq")
		audit = mq

		auditWorker := worker.NewAuditWorker(mq, auditRepo)
		wg.Add(1)
		go func() {
			defer wg.Done()
			auditWorker.Start(ctx)
		}()
	} else {
		log.Println("RABBITMQ_HOST not set, audit trail disabled")
	}

	taskService := usecase.NewTaskService(taskRepo, auditRepo, audit)

	srv := &http.Server{
		Addr:    ":" + envOr("HTTP_PORT", "5000"),
		Handler: api.NewRouter(taskService),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("server is running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func runMigrations(dbURL string) error {
	m, err := migrate.New(envOr("MIGRATIONS_URL", "file://migrations"), dbURL)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}

	log.Println("migrations applied")
	return nil
}
