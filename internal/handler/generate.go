package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/service"
)

// maxGenerateBodySize caps the request body for block payloads (4 MB).
const maxGenerateBodySize = 4 << 20

// GenerateHandler renders a posted block tree into email HTML.
type GenerateHandler struct {
	campaigns *service.CampaignService
	defaults  domain.EmailOptions
	logger    *slog.Logger
}

func NewGenerateHandler(campaigns *service.CampaignService, defaults domain.EmailOptions, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{
		campaigns: campaigns,
		defaults:  defaults,
		logger:    logger,
	}
}

type generateRequest struct {
	Blocks  json.RawMessage `json:"blocks"`
	Options map[string]any  `json:"options"`
}

type generateResponse struct {
	HTML string `json:"html"`
}

// Generate handles POST /api/v1/generate.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxGenerateBodySize+1))
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}
	if len(body) > maxGenerateBodySize {
		ErrorResponse(w, r, h.logger, domain.Errorf(domain.ETOOLARGE, "handler.generate", "request body exceeds %d bytes", maxGenerateBodySize))
		return
	}

	var req generateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("handler.generate", "request body must be a JSON object"))
		return
	}

	var blocks []domain.BlockNode
	if len(req.Blocks) > 0 {
		blocks, err = domain.ParseBlocks(req.Blocks)
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid("handler.generate", "blocks must be a JSON array of block nodes"))
			return
		}
	}

	opts := domain.ResolveEmailOptions(h.defaults, req.Options)
	html := h.campaigns.Generate(r.Context(), blocks, opts)

	writeJSON(w, http.StatusOK, generateResponse{HTML: html})
}
