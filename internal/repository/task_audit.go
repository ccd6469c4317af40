package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskcal/taskcal/internal/entity"
)

type TaskAuditRepository struct {
	db *pgxpool.Pool
}

func NewTaskAuditRepository(db *pgxpool.Pool) *TaskAuditRepository {
	return &TaskAuditRepository{
		db: db,
	}
}

func (r *TaskAuditRepository) Create(ctx context.Context, audit *entity.TaskAudit) error {
	query := `
	INSERT INTO task_audit (action, entity_type, entity_id, payload, changed_at)
	VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		audit.Action,
		audit.EntityType,
		audit.EntityID,
		audit.Values,
		audit.ChangedAt,
	)
	return err
}

func (r *TaskAuditRepository) ListByTask(ctx context.Context, taskID int) ([]entity.TaskAudit, error) {
	query := `
	SELECT id, action, entity_type, entity_id, payload, changed_at
	FROM task_audit
	WHERE entity_id = $1
	ORDER BY changed_at DESC`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []entity.TaskAudit
	for rows.Next() {
		var audit entity.TaskAudit
		err := rows.Scan(
			&audit.ID,
			&audit.Action,
			&audit.EntityType,
			&audit.EntityID,
			&audit.Values,
			&audit.ChangedAt,
		)
		if err != nil {
			return nil, err
		}
		audits = append(audits, audit)
	}

	return audits, rows.Err()
}
