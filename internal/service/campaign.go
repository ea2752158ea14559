package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/email"
	"github.com/campaignbridge/campaignbridge/internal/metrics"
	"github.com/campaignbridge/campaignbridge/internal/repository"
	"github.com/campaignbridge/campaignbridge/internal/storage"
)

// =============================================================================
// Campaign Service
// =============================================================================

// CampaignService turns stored templates into email HTML and exports the
// result to object storage.
type CampaignService struct {
	templates *repository.TemplateRepository
	generator *email.Generator
	storage   storage.Storage
	logger    *slog.Logger
}

// NewCampaignService creates a CampaignService.
func NewCampaignService(
	templates *repository.TemplateRepository,
	generator *email.Generator,
	store storage.Storage,
	logger *slog.Logger,
) *CampaignService {
	return &CampaignService{
		templates: templates,
		generator: generator,
		storage:   store,
		logger:    logger,
	}
}

// Generate renders a block tree directly, without a stored template.
func (s *CampaignService) Generate(ctx context.Context, blocks []domain.BlockNode, opts domain.EmailOptions) string {
	start := time.Now()
	html := s.generator.Generate(ctx, blocks, opts)

	metrics.EmailGenerationsTotal.WithLabelValues("ok").Inc()
	metrics.EmailGenerationDuration.Observe(time.Since(start).Seconds())

	return html
}

// RenderTemplate loads a stored template and renders it.
func (s *CampaignService) RenderTemplate(ctx context.Context, id uuid.UUID, opts domain.EmailOptions) (string, error) {
	tmpl, err := s.templates.Get(ctx, id)
	if err != nil {
		return "", err
	}

	blocks, err := tmpl.ParsedBlocks()
	if err != nil {
		// Stored blocks are validated on save; an undecodable tree here
		// means the row was written outside the application.
		return "", domain.Internal(err, "template.render", "stored template is not a valid block tree")
	}

	if opts.Title == domain.DefaultEmailTitle && tmpl.Name != "" {
		opts.Title = tmpl.Name
	}

	return s.Generate(ctx, blocks, opts), nil
}

// Export renders a stored template and uploads the document to storage.
// Returns the public URL and the storage key.
func (s *CampaignService) Export(ctx context.Context, id uuid.UUID, opts domain.EmailOptions) (string, string, error) {
	html, err := s.RenderTemplate(ctx, id, opts)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("error").Inc()
		return "", "", err
	}

	key := storage.ExportKey(id, uuid.New())
	err = s.storage.Put(ctx, key, strings.NewReader(html), storage.PutOptions{
		ContentType: storage.ContentTypeHTML,
		Overwrite:   true,
		Public:      true,
	})
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("error").Inc()
		return "", "", domain.Internal(err, "template.export", "failed to store exported document")
	}

	url, err := s.storage.URL(ctx, key, 0)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("error").Inc()
		return "", "", domain.Internal(err, "template.export", "failed to resolve export URL")
	}

	metrics.ExportsTotal.WithLabelValues("ok").Inc()
	metrics.ExportSizeBytes.Observe(float64(len(html)))

	s.logger.Info("campaign exported",
		"template_id", id,
		"key", key,
		"size_bytes", len(html),
	)

	return url, key, nil
}
