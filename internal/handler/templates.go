package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/provider"
	"github.com/campaignbridge/campaignbridge/internal/repository"
	"github.com/campaignbridge/campaignbridge/internal/service"
)

// TemplateHandler serves stored email templates, their exports, and
// delivery through the configured providers.
type TemplateHandler struct {
	templates *repository.TemplateRepository
	campaigns *service.CampaignService
	providers *provider.Registry
	defaults  domain.EmailOptions
	logger    *slog.Logger
}

func NewTemplateHandler(
	templates *repository.TemplateRepository,
	campaigns *service.CampaignService,
	providers *provider.Registry,
	defaults domain.EmailOptions,
	logger *slog.Logger,
) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		campaigns: campaigns,
		providers: providers,
		defaults:  defaults,
		logger:    logger,
	}
}

type templateResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List handles GET /api/v1/templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templates.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		out = append(out, templateResponse{
			ID:        t.ID,
			Name:      t.Name,
			CreatedAt: t.CreatedAt,
			UpdatedAt: t.UpdatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"templates": out})
}

type saveTemplateRequest struct {
	Name   string          `json:"name"`
	Blocks json.RawMessage `json:"blocks"`
}

// Save handles POST /api/v1/templates.
func (h *TemplateHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.templates", "request body must be a JSON object"))
		return
	}
	if req.Name == "" {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.templates", "name is required"))
		return
	}

	t := &domain.Template{
		Name:   req.Name,
		Blocks: req.Blocks,
	}
	if err := h.templates.Save(r.Context(), t); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, templateResponse{
		ID:        t.ID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	})
}

type exportResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Export handles POST /api/v1/templates/{id}/export. The rendered HTML
// is written to object storage and the public URL returned.
func (h *TemplateHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.export", "template id must be a UUID"))
		return
	}

	var opts map[string]any
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid("handler.export", "request body must be a JSON object of options"))
			return
		}
	}

	url, key, err := h.campaigns.Export(r.Context(), id, domain.ResolveEmailOptions(h.defaults, opts))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{URL: url, Key: key})
}

type sendRequest struct {
	Provider   string         `json:"provider"`
	Subject    string         `json:"subject"`
	Recipients []string       `json:"recipients"`
	Options    map[string]any `json:"options"`
}

type sendResponse struct {
	CampaignID uuid.UUID `json:"campaign_id"`
	Provider   string    `json:"provider"`
}

// Send handles POST /api/v1/templates/{id}/send: render the template and
// deliver it through the named provider.
func (h *TemplateHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.send", "template id must be a UUID"))
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.send", "request body must be a JSON object"))
		return
	}
	if req.Provider == "" {
		req.Provider = "html_export"
	}

	p, err := h.providers.Get(req.Provider)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	html, err := h.campaigns.RenderTemplate(r.Context(), id, domain.ResolveEmailOptions(h.defaults, req.Options))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	subject := req.Subject
	if subject == "" {
		subject = h.defaults.Title
	}

	campaign := domain.Campaign{
		ID:         uuid.New(),
		TemplateID: id,
		Subject:    subject,
		HTML:       html,
		Recipients: req.Recipients,
	}
	if err := p.Deliver(r.Context(), campaign); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, sendResponse{CampaignID: campaign.ID, Provider: p.Name()})
}
