package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/logger"
)

type AssessmentRepository struct {
	DB  *sql.DB
	log *logger.Logger
}

func NewAssessmentRepository(db *sql.DB, log *logger.Logger) *AssessmentRepository {
	return &AssessmentRepository{DB: db, log: log.Child("repo:assessments", nil)}
}

func (r *AssessmentRepository) Create(ctx context.Context, a *entity.BusinessAssessment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = "OPEN"
	}

	query := `
		INSERT INTO business_assessments (id, lead_id, business_field, company_size, automation_score, summary, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return withRetry(ctx, r.log, "assessments.create", func() error {
		return r.DB.QueryRowContext(
			ctx, query,
			a.ID, a.LeadID,
			nullString(a.BusinessField), nullString(a.CompanySize),
			a.AutomationScore, nullString(a.Summary), a.Status,
		).Scan(&a.CreatedAt, &a.UpdatedAt)
	})
}

func (r *AssessmentRepository) FindByID(ctx context.Context, id string) (*entity.BusinessAssessment, error) {
	query := `
		SELECT id, lead_id, COALESCE(business_field, ''), COALESCE(company_size, ''),
		       automation_score, COALESCE(summary, ''), status, created_at, updated_at
		FROM business_assessments
		WHERE id = $1
	`

	var a entity.BusinessAssessment
	err := withRetry(ctx, r.log, "assessments.find_by_id", func() error {
		return r.DB.QueryRowContext(ctx, query, id).Scan(
			&a.ID, &a.LeadID, &a.BusinessField, &a.CompanySize,
			&a.AutomationScore, &a.Summary, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE business_assessments SET status = $2, updated_at = NOW() WHERE id = $1`
	return withRetry(ctx, r.log, "assessments.update_status", func() error {
		_, err := r.DB.ExecContext(ctx, query, id, status)
		return err
	})
}
