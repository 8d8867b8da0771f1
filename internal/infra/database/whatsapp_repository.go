package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/logger"
)

type WhatsappRepository struct {
	DB  *sql.DB
	log *logger.Logger
}

func NewWhatsappRepository(db *sql.DB, log *logger.Logger) *WhatsappRepository {
	return &WhatsappRepository{DB: db, log: log.Child("repo:whatsapp", nil)}
}

func (r *WhatsappRepository) SaveMessage(ctx context.Context, m *entity.WhatsappMessage) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	query := `
		INSERT INTO whatsapp_messages (id, session_id, provider_id, phone, direction, body, intent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`

	return withRetry(ctx, r.log, "whatsapp.save_message", func() error {
		return r.DB.QueryRowContext(
			ctx, query,
			m.ID, nullString(m.SessionID), nullString(m.ProviderID),
			m.Phone, m.Direction, m.Body, nullString(m.Intent),
		).Scan(&m.CreatedAt)
	})
}

// FindActiveSessionByPhone returns nil without error when the number has no
// active session; the webhook path drops those messages.
func (r *WhatsappRepository) FindActiveSessionByPhone(ctx context.Context, phone string) (*entity.WhatsappSession, error) {
	query := `
		SELECT id, phone, COALESCE(lead_id, ''), status, COALESCE(language, ''), created_at, updated_at
		FROM whatsapp_sessions
		WHERE phone = $1 AND status = $2
	`

	var s entity.WhatsappSession
	err := withRetry(ctx, r.log, "whatsapp.find_active_session", func() error {
		return r.DB.QueryRowContext(ctx, query, phone, entity.SessionActive).Scan(
			&s.ID, &s.Phone, &s.LeadID, &s.Status, &s.Language, &s.CreatedAt, &s.UpdatedAt,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// CreateSession closes any previous active session for the phone first; the
// one-active-session-per-number invariant is enforced here, not by callers.
func (r *WhatsappRepository) CreateSession(ctx context.Context, s *entity.WhatsappSession) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Status == "" {
		s.Status = entity.SessionActive
	}

	return withRetry(ctx, r.log, "whatsapp.create_session", func() error {
		tx, err := r.DB.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(
			ctx,
			`UPDATE whatsapp_sessions SET status = $2, updated_at = NOW() WHERE phone = $1 AND status = $3`,
			s.Phone, entity.SessionClosed, entity.SessionActive,
		); err != nil {
			return err
		}

		if err := tx.QueryRowContext(
			ctx,
			`INSERT INTO whatsapp_sessions (id, phone, lead_id, status, language, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
			 RETURNING created_at, updated_at`,
			s.ID, s.Phone, nullString(s.LeadID), s.Status, nullString(s.Language),
		).Scan(&s.CreatedAt, &s.UpdatedAt); err != nil {
			return err
		}

		return tx.Commit()
	})
}

func (r *WhatsappRepository) CloseSession(ctx context.Context, id string) error {
	query := `UPDATE whatsapp_sessions SET status = $2, updated_at = NOW() WHERE id = $1`
	return withRetry(ctx, r.log, "whatsapp.close_session", func() error {
		_, err := r.DB.ExecContext(ctx, query, id, entity.SessionClosed)
		return err
	})
}

func (r *WhatsappRepository) FindTemplateByName(ctx context.Context, name, language string) (*entity.WhatsappTemplate, error) {
	query := `SELECT id, name, language, body FROM whatsapp_templates WHERE name = $1 AND language = $2`

	var t entity.WhatsappTemplate
	err := withRetry(ctx, r.log, "whatsapp.find_template", func() error {
		return r.DB.QueryRowContext(ctx, query, name, language).
			Scan(&t.ID, &t.Name, &t.Language, &t.Body)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
