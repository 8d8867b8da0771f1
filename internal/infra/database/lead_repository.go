package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/logger"
)

type LeadRepository struct {
	DB  *sql.DB
	log *logger.Logger
}

func NewLeadRepository(db *sql.DB, log *logger.Logger) *LeadRepository {
	return &LeadRepository{DB: db, log: log.Child("repo:leads", nil)}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = "NEW"
	}
	if lead.Source == "" {
		lead.Source = "WEBSITE"
	}

	query := `
		INSERT INTO leads (id, name, email, phone, company, business_field, company_size, challenges, message, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return withRetry(ctx, r.log, "leads.create", func() error {
		return r.DB.QueryRowContext(
			ctx,
			query,
			lead.ID,
			lead.Name,
			lead.Email,
			nullString(lead.Phone),
			nullString(lead.Company),
			nullString(lead.BusinessField),
			nullString(lead.CompanySize),
			pq.Array(lead.Challenges),
			nullString(lead.Message),
			lead.Source,
			lead.Status,
		).Scan(&lead.CreatedAt, &lead.UpdatedAt)
	})
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	query := `
		SELECT id, name, email, COALESCE(phone, ''), COALESCE(company, ''),
		       COALESCE(business_field, ''), COALESCE(company_size, ''), challenges,
		       COALESCE(message, ''), source, status, created_at, updated_at
		FROM leads
		WHERE id = $1
	`

	var lead entity.Lead
	err := withRetry(ctx, r.log, "leads.find_by_id", func() error {
		return r.DB.QueryRowContext(ctx, query, id).Scan(
			&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Company,
			&lead.BusinessField, &lead.CompanySize, pq.Array(&lead.Challenges),
			&lead.Message, &lead.Source, &lead.Status, &lead.CreatedAt, &lead.UpdatedAt,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
