package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/repository"
	"github.com/campaignbridge/campaignbridge/internal/storage"
)

// =============================================================================
// Post Service
// =============================================================================

// PostService resolves post references for the email generator. It joins
// repository rows with storage URLs and derives missing thumbnail size
// variants on demand.
//
// Safe for concurrent use: lookups only read, and variant generation is
// keyed by deterministic storage keys so a concurrent duplicate write is
// harmless.
type PostService struct {
	posts      *repository.PostRepository
	storage    storage.Storage
	thumbnails ThumbnailProcessor
	logger     *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(
	posts *repository.PostRepository,
	store storage.Storage,
	thumbnails ThumbnailProcessor,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		storage:    store,
		thumbnails: thumbnails,
		logger:     logger,
	}
}

// thumbnailSizes lists the derived variants exposed to post-image blocks.
var thumbnailSizes = []domain.ThumbnailSize{
	domain.ThumbnailSizeThumbnail,
	domain.ThumbnailSizeMedium,
	domain.ThumbnailSizeLarge,
}

// GetPostSummary implements email.PostLookup.
func (s *PostService) GetPostSummary(ctx context.Context, id int64) (*domain.PostSummary, error) {
	post, err := s.posts.GetPublished(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := &domain.PostSummary{
		ID:          post.ID,
		Title:       post.Title,
		Excerpt:     post.Excerpt,
		Content:     post.Content,
		Permalink:   post.Permalink,
		PublishedAt: post.PublishedAtOrZero(),
	}

	if post.ThumbnailKey != "" {
		summary.HasThumbnail = true
		summary.Thumbnails = s.thumbnailURLs(ctx, post.ThumbnailKey)
	}

	return summary, nil
}

// thumbnailURLs builds the size->URL map for a post image. A variant that
// cannot be generated falls back to the original image URL so the block
// still renders something.
func (s *PostService) thumbnailURLs(ctx context.Context, originalKey string) map[domain.ThumbnailSize]string {
	urls := make(map[domain.ThumbnailSize]string, len(thumbnailSizes)+1)

	fullURL, err := s.storage.URL(ctx, originalKey, 0)
	if err != nil {
		s.logger.Warn("thumbnail URL failed", "key", originalKey, "error", err)
		return nil
	}
	urls[domain.ThumbnailSizeFull] = fullURL

	for _, size := range thumbnailSizes {
		key, err := s.ensureVariant(ctx, originalKey, size)
		if err != nil {
			s.logger.Warn("thumbnail variant unavailable",
				"key", originalKey,
				"size", string(size),
				"error", err,
			)
			urls[size] = fullURL
			continue
		}
		url, err := s.storage.URL(ctx, key, 0)
		if err != nil {
			urls[size] = fullURL
			continue
		}
		urls[size] = url
	}

	return urls
}

// ensureVariant returns the storage key of the sized variant, generating
// and storing it from the original when missing.
func (s *PostService) ensureVariant(ctx context.Context, originalKey string, size domain.ThumbnailSize) (string, error) {
	dim := size.MaxDimension()
	if dim == 0 {
		return originalKey, nil
	}

	key := storage.VariantKey(originalKey, dim)

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		return key, nil
	}

	original, _, err := s.storage.Get(ctx, originalKey)
	if err != nil {
		return "", err
	}
	defer original.Close()

	data, err := s.thumbnails.GenerateThumbnail(original, dim, dim)
	if err != nil {
		return "", err
	}

	err = s.storage.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{
		ContentType: "image/jpeg",
		Overwrite:   true,
		Public:      true,
	})
	if err != nil {
		return "", fmt.Errorf("store variant: %w", err)
	}

	s.logger.Debug("generated thumbnail variant", "key", key, "dimension", dim)

	return key, nil
}
