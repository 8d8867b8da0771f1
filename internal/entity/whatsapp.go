package entity

import (
	"context"
	"time"
)

const (
	SessionActive = "active"
	SessionClosed = "closed"

	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// WhatsappSession groups a conversation with one phone number. At most one
// active session exists per number at a time; the webhook path looks sessions
// up but never creates them.
type WhatsappSession struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	LeadID    string    `json:"lead_id,omitempty"`
	Status    string    `json:"status"` // active, closed
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type WhatsappMessage struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id,omitempty"`
	ProviderID string    `json:"provider_id,omitempty"`
	Phone      string    `json:"phone"`
	Direction  string    `json:"direction"` // inbound, outbound
	Body       string    `json:"body"`
	Intent     string    `json:"intent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type WhatsappTemplate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Body     string `json:"body"`
}

type WhatsappRepositoryInterface interface {
	SaveMessage(ctx context.Context, m *WhatsappMessage) error
	FindActiveSessionByPhone(ctx context.Context, phone string) (*WhatsappSession, error)
	CreateSession(ctx context.Context, s *WhatsappSession) error
	CloseSession(ctx context.Context, id string) error
	FindTemplateByName(ctx context.Context, name, language string) (*WhatsappTemplate, error)
}
