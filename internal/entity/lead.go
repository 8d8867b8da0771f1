package entity

import (
	"context"
	"time"
)

type Lead struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Company       string    `json:"company,omitempty"`
	BusinessField string    `json:"business_field,omitempty"`
	CompanySize   string    `json:"company_size,omitempty"`
	Challenges    []string  `json:"challenges,omitempty"`
	Message       string    `json:"message,omitempty"`
	Source        string    `json:"source"` // WEBSITE, WHATSAPP, REFERRAL
	Status        string    `json:"status"` // NEW, CONTACTED, QUALIFIED, CONVERTED
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
}
