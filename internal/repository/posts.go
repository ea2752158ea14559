package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// =============================================================================
// Post Repository
// =============================================================================

// Post is a row of the posts table.
type Post struct {
	ID           int64
	Title        string
	Excerpt      string
	Content      string
	Permalink    string
	ThumbnailKey string
	Status       string
	PublishedAt  sql.NullTime
}

// PostRepository reads posts referenced by campaign blocks.
type PostRepository struct {
	db *sql.DB
}

// GetPublished fetches a published post by ID. Returns a domain.ENOTFOUND
// error for a missing or unpublished post.
func (r *PostRepository) GetPublished(ctx context.Context, id int64) (*Post, error) {
	const query = `
		SELECT id, title, excerpt, content, permalink, thumbnail_key, status, published_at
		FROM posts
		WHERE id = $1 AND status = 'published'`

	var p Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Excerpt,
		&p.Content,
		&p.Permalink,
		&p.ThumbnailKey,
		&p.Status,
		&p.PublishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("post.get", "post", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}

	return &p, nil
}

// ListPublished returns the most recent published posts, newest first.
func (r *PostRepository) ListPublished(ctx context.Context, limit int) ([]Post, error) {
	if limit <= 0 {
		limit = 20
	}

	const query = `
		SELECT id, title, excerpt, content, permalink, thumbnail_key, status, published_at
		FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Excerpt,
			&p.Content,
			&p.Permalink,
			&p.ThumbnailKey,
			&p.Status,
			&p.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}

	return posts, rows.Err()
}

// PublishedAtOrZero returns the publish time, or the zero time for drafts.
func (p *Post) PublishedAtOrZero() time.Time {
	if p.PublishedAt.Valid {
		return p.PublishedAt.Time
	}
	return time.Time{}
}
