package domain

import "time"

// =============================================================================
// Thumbnail Sizes
// =============================================================================

// ThumbnailSize names a derived image variant used by post-image blocks.
type ThumbnailSize string

const (
	ThumbnailSizeThumbnail ThumbnailSize = "thumbnail" // 150px bounding box
	ThumbnailSizeMedium    ThumbnailSize = "medium"    // 300px bounding box
	ThumbnailSizeLarge     ThumbnailSize = "large"     // 600px bounding box
	ThumbnailSizeFull      ThumbnailSize = "full"      // original image
)

// MaxDimension returns the bounding-box edge for the size, or 0 for the
// original image.
func (s ThumbnailSize) MaxDimension() int {
	switch s {
	case ThumbnailSizeThumbnail:
		return 150
	case ThumbnailSizeMedium:
		return 300
	case ThumbnailSizeLarge:
		return 600
	}
	return 0
}

// IsValid returns true for a recognized size name.
func (s ThumbnailSize) IsValid() bool {
	switch s {
	case ThumbnailSizeThumbnail, ThumbnailSizeMedium, ThumbnailSizeLarge, ThumbnailSizeFull:
		return true
	}
	return false
}

// =============================================================================
// Post Summary
// =============================================================================

// PostSummary is the read-only view of a post consumed by post-reference
// blocks (post-card, post-title, post-excerpt, post-image, post-cta).
type PostSummary struct {
	ID           int64
	Title        string
	Excerpt      string
	Content      string
	Permalink    string
	HasThumbnail bool
	// Thumbnails maps size names to public image URLs.
	Thumbnails  map[ThumbnailSize]string
	PublishedAt time.Time
}

// ThumbnailURL returns the image URL for the requested size, falling back to
// the full-size image and finally to any available variant. Returns "" when
// the post has no featured image.
func (p *PostSummary) ThumbnailURL(size ThumbnailSize) string {
	if !p.HasThumbnail || len(p.Thumbnails) == 0 {
		return ""
	}
	if url, ok := p.Thumbnails[size]; ok && url != "" {
		return url
	}
	if url, ok := p.Thumbnails[ThumbnailSizeFull]; ok && url != "" {
		return url
	}
	for _, url := range p.Thumbnails {
		if url != "" {
			return url
		}
	}
	return ""
}

// ExcerptOrContent returns the excerpt when present, otherwise the content.
// Post-excerpt blocks trim the result to a word budget.
func (p *PostSummary) ExcerptOrContent() string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	return p.Content
}
