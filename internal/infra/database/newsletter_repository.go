package database

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/logger"
)

type NewsletterRepository struct {
	DB  *sql.DB
	log *logger.Logger
}

func NewNewsletterRepository(db *sql.DB, log *logger.Logger) *NewsletterRepository {
	return &NewsletterRepository{DB: db, log: log.Child("repo:newsletter", nil)}
}

// Upsert re-subscribes a known address instead of failing on the unique
// email constraint.
func (r *NewsletterRepository) Upsert(ctx context.Context, sub *entity.Subscriber) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}

	query := `
		INSERT INTO newsletter_subscribers (id, email, name, status, subscribed_at, updated_at)
		VALUES ($1, $2, $3, 'SUBSCRIBED', NOW(), NOW())
		ON CONFLICT (email)
		DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), newsletter_subscribers.name),
			status = 'SUBSCRIBED',
			updated_at = NOW()
		RETURNING id, status, subscribed_at, updated_at
	`

	return withRetry(ctx, r.log, "newsletter.upsert", func() error {
		return r.DB.QueryRowContext(ctx, query, sub.ID, sub.Email, sub.Name).
			Scan(&sub.ID, &sub.Status, &sub.SubscribedAt, &sub.UpdatedAt)
	})
}
