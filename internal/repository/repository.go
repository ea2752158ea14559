// Package repository provides database access for CampaignBridge.
//
// Queries are hand-written SQL executed through database/sql with the pgx
// stdlib driver.
package repository

import "database/sql"

// Repository bundles the per-table query sets over one database handle.
type Repository struct {
	Posts     *PostRepository
	Templates *TemplateRepository
}

// New creates a Repository.
func New(db *sql.DB) *Repository {
	return &Repository{
		Posts:     &PostRepository{db: db},
		Templates: &TemplateRepository{db: db},
	}
}
