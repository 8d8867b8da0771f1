package entity

import (
	"context"
	"time"
)

type Subscriber struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Status       string    `json:"status"` // SUBSCRIBED, UNSUBSCRIBED
	SubscribedAt time.Time `json:"subscribed_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type NewsletterRepositoryInterface interface {
	// Upsert re-subscribes an existing address instead of duplicating it.
	Upsert(ctx context.Context, sub *Subscriber) error
}
