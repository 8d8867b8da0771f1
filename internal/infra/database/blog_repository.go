package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/agentflow/agentflow-api/internal/entity"
	"github.com/agentflow/agentflow-api/internal/logger"
)

type BlogRepository struct {
	DB  *sql.DB
	log *logger.Logger
}

func NewBlogRepository(db *sql.DB, log *logger.Logger) *BlogRepository {
	return &BlogRepository{DB: db, log: log.Child("repo:blog", nil)}
}

const blogColumns = `
	id, slug, title, excerpt, content, category, tags, author,
	published, published_at, updated_at
`

func (r *BlogRepository) List(ctx context.Context) ([]*entity.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE published = TRUE ORDER BY published_at DESC`
	return r.queryPosts(ctx, "blog.list", query)
}

func (r *BlogRepository) ListByCategory(ctx context.Context, category string) ([]*entity.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE published = TRUE AND category = $1 ORDER BY published_at DESC`
	return r.queryPosts(ctx, "blog.list_by_category", query, category)
}

func (r *BlogRepository) FindBySlug(ctx context.Context, slug string) (*entity.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blog_posts WHERE slug = $1 AND published = TRUE`

	var post entity.BlogPost
	err := withRetry(ctx, r.log, "blog.find_by_slug", func() error {
		return scanPost(r.DB.QueryRowContext(ctx, query, slug), &post)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *BlogRepository) queryPosts(ctx context.Context, op, query string, args ...any) ([]*entity.BlogPost, error) {
	var posts []*entity.BlogPost

	err := withRetry(ctx, r.log, op, func() error {
		rows, err := r.DB.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		posts = posts[:0]
		for rows.Next() {
			var post entity.BlogPost
			if err := scanPost(rows, &post); err != nil {
				return err
			}
			posts = append(posts, &post)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner, post *entity.BlogPost) error {
	return row.Scan(
		&post.ID, &post.Slug, &post.Title, &post.Excerpt, &post.Content,
		&post.Category, pq.Array(&post.Tags), &post.Author,
		&post.Published, &post.PublishedAt, &post.UpdatedAt,
	)
}
