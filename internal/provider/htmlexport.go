package provider

import (
	"context"
	"log/slog"
	"strings"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/storage"
)

// =============================================================================
// HTML Export Provider
// =============================================================================

// HTMLExportProvider "delivers" a campaign by writing the document to object
// storage, backing the download/copy-to-clipboard workflow in the admin UI.
type HTMLExportProvider struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewHTMLExportProvider creates an HTMLExportProvider.
func NewHTMLExportProvider(store storage.Storage, logger *slog.Logger) *HTMLExportProvider {
	return &HTMLExportProvider{
		storage: store,
		logger:  logger,
	}
}

// Name implements Provider.
func (p *HTMLExportProvider) Name() string {
	return "html_export"
}

// Deliver stores the campaign HTML under its export key.
func (p *HTMLExportProvider) Deliver(ctx context.Context, campaign domain.Campaign) error {
	key := storage.ExportKey(campaign.TemplateID, campaign.ID)

	err := p.storage.Put(ctx, key, strings.NewReader(campaign.HTML), storage.PutOptions{
		ContentType: storage.ContentTypeHTML,
		Overwrite:   true,
		Public:      true,
	})
	if err != nil {
		return err
	}

	p.logger.Info("campaign exported to storage",
		"campaign_id", campaign.ID,
		"key", key,
	)

	return nil
}

var _ Provider = (*HTMLExportProvider)(nil)
