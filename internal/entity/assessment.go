package entity

import (
	"context"
	"time"
)

// BusinessAssessment is derived from a lead's declared challenges at capture
// time and later enriched by the sales flow.
type BusinessAssessment struct {
	ID              string    `json:"id"`
	LeadID          string    `json:"lead_id"`
	BusinessField   string    `json:"business_field,omitempty"`
	CompanySize     string    `json:"company_size,omitempty"`
	AutomationScore int       `json:"automation_score"` // 0-100
	Summary         string    `json:"summary,omitempty"`
	Status          string    `json:"status"` // OPEN, REVIEWED, CLOSED
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BusinessNeed always references an existing assessment.
type BusinessNeed struct {
	ID           string    `json:"id"`
	AssessmentID string    `json:"assessment_id"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Priority     string    `json:"priority"` // LOW, MEDIUM, HIGH
	CreatedAt    time.Time `json:"created_at"`
}

type AssessmentRepositoryInterface interface {
	Create(ctx context.Context, a *BusinessAssessment) error
	FindByID(ctx context.Context, id string) (*BusinessAssessment, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type NeedRepositoryInterface interface {
	Create(ctx context.Context, n *BusinessNeed) error
}
