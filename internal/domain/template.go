package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Campaign Template
// =============================================================================

// Template is a stored campaign layout: a named, serialized block tree that
// can be rendered into email HTML on demand.
type Template struct {
	ID        uuid.UUID
	Name      string
	Blocks    json.RawMessage // Serialized block tree (JSON array of nodes)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ParsedBlocks decodes the stored block tree.
func (t *Template) ParsedBlocks() ([]BlockNode, error) {
	return ParseBlocks(t.Blocks)
}

// =============================================================================
// Campaign
// =============================================================================

// Campaign is a rendered email ready for delivery through a provider.
type Campaign struct {
	ID         uuid.UUID
	TemplateID uuid.UUID
	Subject    string
	HTML       string
	Recipients []string // Used by delivery providers that address recipients
}
