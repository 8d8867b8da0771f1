package entity

import (
	"context"
	"time"
)

type BlogPost struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	Author      string    `json:"author"`
	Published   bool      `json:"published"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BlogRepositoryInterface interface {
	List(ctx context.Context) ([]*BlogPost, error)
	FindBySlug(ctx context.Context, slug string) (*BlogPost, error)
	ListByCategory(ctx context.Context, category string) ([]*BlogPost, error)
}
