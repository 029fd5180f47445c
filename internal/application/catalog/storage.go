package catalog

import (
	"context"
	"time"

	"github.com/livecommerce/backend/internal/domain/shared"
)

// ErrStorageUnavailable is returned when no object storage is configured
var ErrStorageUnavailable = shared.NewDomainError("STORAGE_UNAVAILABLE", "Image storage is not configured")

// UploadTicket is a presigned upload the client performs directly against
// object storage
type UploadTicket struct {
	UploadURL   string    `json:"upload_url"`
	Method      string    `json:"method"`
	ObjectKey   string    `json:"object_key"`
	ObjectURL   string    `json:"object_url"`
	ContentType string    `json:"content_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ImageStorage issues upload URLs for product images
type ImageStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (*UploadTicket, error)
	DeleteObject(ctx context.Context, key string) error
}
