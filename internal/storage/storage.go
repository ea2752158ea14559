// Package storage provides object storage for CampaignBridge.
//
// Two implementations back the Storage interface:
//   - LocalStorage: filesystem storage for development
//   - R2Storage: Cloudflare R2 (S3-compatible) storage for production
//
// The service stores exported campaign HTML documents and post images
// (originals plus derived thumbnail variants).
package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Storage defines the interface for object storage operations.
// All methods are context-aware for timeout and cancellation support.
type Storage interface {
	// Put stores data at the specified key. Fails with ErrKeyExists when the
	// key is taken and opts.Overwrite is false.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get retrieves the object at the specified key. The caller must close
	// the returned reader. Returns ErrNotFound for a missing key.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object at the specified key. Idempotent.
	Delete(ctx context.Context, key string) error

	// URL returns a URL for accessing the object. expires selects a
	// presigned URL where the backend supports it; 0 means public.
	URL(ctx context.Context, key string, expires time.Duration) (string, error)

	// Exists reports whether an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Data Types
// =============================================================================

// PutOptions configures how an object is stored.
type PutOptions struct {
	// ContentType specifies the MIME type. Empty means detect from the key.
	ContentType string

	// MaxSize caps the object size in bytes; 0 means no limit.
	MaxSize int64

	// Overwrite allows replacing an existing object at the same key.
	Overwrite bool

	// Public marks the object publicly readable (R2 ACL; informational for
	// local storage).
	Public bool
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem storage.
type LocalConfig struct {
	BasePath string // Root directory for stored objects
	BaseURL  string // Base URL under which objects are served
}

// R2Config holds configuration for Cloudflare R2 storage.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string // Optional custom-domain URL for public objects
	Region          string // Defaults to "auto"
}

// =============================================================================
// Key Construction
// =============================================================================

// ExportKey returns the storage key for an exported campaign HTML document.
func ExportKey(templateID uuid.UUID, exportID uuid.UUID) string {
	return fmt.Sprintf("exports/%s/%s.html", templateID, exportID)
}

// ImageKey returns the storage key for a post's original image.
func ImageKey(postID int64, filename string) string {
	return fmt.Sprintf("images/%d/%s", postID, filepath.Base(filename))
}

// VariantKey derives the key for a sized thumbnail variant from the original
// image key: "images/7/cover.jpg" -> "images/7/cover_300.jpg". Variants are
// always encoded as JPEG.
func VariantKey(originalKey string, maxDimension int) string {
	ext := filepath.Ext(originalKey)
	base := strings.TrimSuffix(originalKey, ext)
	return fmt.Sprintf("%s_%d.jpg", base, maxDimension)
}

// =============================================================================
// Content Types
// =============================================================================

// ContentTypeHTML is the content type for exported campaign documents.
const ContentTypeHTML = "text/html; charset=utf-8"

// DetectContentType determines the MIME type for a key from its extension,
// falling back to a generic binary type.
func DetectContentType(key string) string {
	ext := strings.ToLower(filepath.Ext(key))
	if ext == ".html" || ext == ".htm" {
		return ContentTypeHTML
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

// IsImage returns true if the content type is any image format.
func IsImage(contentType string) bool {
	baseType := strings.TrimSpace(strings.ToLower(strings.Split(contentType, ";")[0]))
	return strings.HasPrefix(baseType, "image/")
}
