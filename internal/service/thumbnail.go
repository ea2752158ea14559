// Package service contains business logic for CampaignBridge.
//
// This file implements thumbnail generation for post images referenced by
// post-image blocks.
package service

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// thumbnailJPEGQuality is the encode quality for derived variants.
const thumbnailJPEGQuality = 85

// =============================================================================
// Interface Definition
// =============================================================================

// ThumbnailProcessor derives sized image variants from an original image.
type ThumbnailProcessor interface {
	// GenerateThumbnail creates a variant that fits within maxWidth x
	// maxHeight while preserving aspect ratio, encoded as JPEG.
	GenerateThumbnail(data io.Reader, maxWidth, maxHeight int) ([]byte, error)
}

// =============================================================================
// Implementation
// =============================================================================

// imagingProcessor implements ThumbnailProcessor using the imaging library.
type imagingProcessor struct{}

// NewImagingProcessor creates a thumbnail processor using the imaging library.
func NewImagingProcessor() ThumbnailProcessor {
	return &imagingProcessor{}
}

func (p *imagingProcessor) GenerateThumbnail(data io.Reader, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// imaging.Fit resizes within the bounding box, preserving aspect ratio.
	thumbnail := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG, imaging.JPEGQuality(thumbnailJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}
