package worker

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/taskcal/taskcal/internal/entity"
	"github.com/taskcal/taskcal/internal/rabbitmq"
	"github.com/taskcal/taskcal/internal/repository"
)

// AuditWorker drains the audit queue and persists each message as a
// task_audit row.
type AuditWorker struct {
	rabbitMQ  *rabbitmq.Client
	auditRepo repository.ITaskAuditRepository
}

func NewAuditWorker(rabbitMQ *rabbitmq.Client, auditRepo repository.ITaskAuditRepository) *AuditWorker {
	return &AuditWorker{
		rabbitMQ:  rabbitMQ,
		auditRepo: auditRepo,
	}
}

func (w *AuditWorker) Start(ctx context.Context) {
	msgs, err := w.rabbitMQ.Consume("audit_worker")
	if err != nil {
		log.Printf("audit worker: consume failed: %v", err)
		return
	}

	log.Printf("audit worker started, consuming %s", w.rabbitMQ.QueueName())

	for {
		select {
		case <-ctx.Done():
			log.Println("audit worker stopped")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("audit worker: delivery channel closed")
				return
			}
			w.processMessage(ctx, msg)
		}
	}
}

func (w *AuditWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var auditMsg entity.AuditMessage
	if err := json.Unmarshal(msg.Body, &auditMsg); err != nil {
		// Malformed messages can never succeed; drop without requeue.
		log.Printf("audit worker: bad message: %v", err)
		msg.Nack(false, false)
		return
	}

	audit, err := convertToTaskAudit(&auditMsg)
	if err != nil {
		log.Printf("audit worker: convert failed: %v", err)
		msg.Nack(false, false)
		return
	}

	if err := w.auditRepo.Create(ctx, audit); err != nil {
		// Storage may recover; requeue for another attempt.
		log.Printf("audit worker: save failed: %v", err)
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
}

func convertToTaskAudit(msg *entity.AuditMessage) (*entity.TaskAudit, error) {
	var payload *string
	if msg.Values != nil {
		raw, err := json.Marshal(msg.Values)
		if err != nil {
			return nil, err
		}
		s := string(raw)
		payload = &s
	}

	return &entity.TaskAudit{
		Action:     msg.Action,
		EntityType: "task",
		EntityID:   msg.EntityID,
		Values:     payload,
		ChangedAt:  msg.Timestamp,
	}, nil
}
