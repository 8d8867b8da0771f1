package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/logger"
)

type NeedRepository struct {
	DB  *sql.DB
	log *logger.Logger
}

func NewNeedRepository(db *sql.DB, log *logger.Logger) *NeedRepository {
	return &NeedRepository{DB: db, log: log.Child("repo:needs", nil)}
}

func (r *NeedRepository) Create(ctx context.Context, n *entity.BusinessNeed) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Priority == "" {
		n.Priority = "MEDIUM"
	}

	query := `
		INSERT INTO business_needs (id, assessment_id, category, description, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`

	return withRetry(ctx, r.log, "needs.create", func() error {
		return r.DB.QueryRowContext(ctx, query, n.ID, n.AssessmentID, n.Category, n.Description, n.Priority).
			Scan(&n.CreatedAt)
	})
}
