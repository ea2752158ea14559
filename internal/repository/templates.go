package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/campaignbridge/campaignbridge/internal/domain"
)

// =============================================================================
// Template Repository
// =============================================================================

// TemplateRepository stores campaign templates (named block trees).
type TemplateRepository struct {
	db *sql.DB
}

// Get fetches a template by ID. Returns a domain.ENOTFOUND error when the
// template does not exist.
func (r *TemplateRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	const query = `
		SELECT id, name, blocks, created_at, updated_at
		FROM templates
		WHERE id = $1`

	var t domain.Template
	var blocks []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&blocks,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("template.get", "template", id.String())
		}
		return nil, fmt.Errorf("get template %s: %w", id, err)
	}

	t.Blocks = json.RawMessage(blocks)
	return &t, nil
}

// List returns all templates ordered by most recently updated.
func (r *TemplateRepository) List(ctx context.Context) ([]domain.Template, error) {
	const query = `
		SELECT id, name, blocks, created_at, updated_at
		FROM templates
		ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.Template
	for rows.Next() {
		var t domain.Template
		var blocks []byte
		if err := rows.Scan(&t.ID, &t.Name, &blocks, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.Blocks = json.RawMessage(blocks)
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

// Save upserts a template by ID, validating the block tree parses first so
// the table never stores an undecodable layout.
func (r *TemplateRepository) Save(ctx context.Context, t *domain.Template) error {
	if _, err := domain.ParseBlocks(t.Blocks); err != nil {
		return domain.Invalid("template.save", "blocks must be a JSON array of block nodes")
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	const query = `
		INSERT INTO templates (id, name, blocks, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, blocks = EXCLUDED.blocks, updated_at = now()
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, t.ID, t.Name, []byte(t.Blocks)).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save template %s: %w", t.ID, err)
	}

	return nil
}
