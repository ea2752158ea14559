package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/repository"
)

// maxPostListLimit caps the page size of the post picker.
const maxPostListLimit = 100

// PostHandler serves the post list backing the editor's post picker.
type PostHandler struct {
	posts  *repository.PostRepository
	logger *slog.Logger
}

func NewPostHandler(posts *repository.PostRepository, logger *slog.Logger) *PostHandler {
	return &PostHandler{
		posts:  posts,
		logger: logger,
	}
}

type postResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	PublishedAt time.Time `json:"published_at"`
}

// List handles GET /api/v1/posts. Only published posts are listed; the
// optional limit query parameter pages the result.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			ErrorResponse(w, r, h.logger, domain.Invalid("handler.posts", "limit must be a positive integer"))
			return
		}
		limit = n
	}
	if limit > maxPostListLimit {
		limit = maxPostListLimit
	}

	posts, err := h.posts.ListPublished(r.Context(), limit)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, postResponse{
			ID:          p.ID,
			Title:       p.Title,
			Excerpt:     p.Excerpt,
			PublishedAt: p.PublishedAtOrZero(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"posts": out})
}
