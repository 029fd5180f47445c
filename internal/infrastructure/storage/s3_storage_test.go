package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/livecommerce/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:       "product-images",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Region:       "ap-southeast-1",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	_, err := NewS3ImageStorage(nil)
	assert.ErrorContains(t, err, "configuration is required")

	tests := []struct {
		name   string
		mutate func(*config.StorageConfig)
		want   string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
		{"bad endpoint", func(c *config.StorageConfig) { c.Endpoint = "http://" }, "invalid storage endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			_, err := NewS3ImageStorage(cfg)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestNewS3ImageStorage_Defaults(t *testing.T) {
	cfg := validConfig()
	cfg.Endpoint = "minio.local:9000"
	cfg.UseSSL = true

	s, err := NewS3ImageStorage(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://minio.local:9000", s.endpoint)
	assert.Equal(t, defaultPresignExpiration, s.presignExpiration)
	assert.Equal(t, "product-images", s.Bucket())
}

func TestS3ImageStorage_ObjectURL(t *testing.T) {
	s, err := NewS3ImageStorage(validConfig())
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/product-images/products/a.jpg", s.ObjectURL("products/a.jpg"))

	cfg := validConfig()
	cfg.UsePathStyle = false
	cfg.Endpoint = "https://s3.amazonaws.com"
	s, err = NewS3ImageStorage(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://product-images.s3.amazonaws.com/products/a.jpg", s.ObjectURL("products/a.jpg"))

	cfg.PublicBaseURL = "https://cdn.example.com/"
	s, err = NewS3ImageStorage(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/a.jpg", s.ObjectURL("products/a.jpg"))
}

func TestS3ImageStorage_PresignUpload(t *testing.T) {
	cfg := validConfig()
	cfg.PresignExpiration = 5 * time.Minute
	s, err := NewS3ImageStorage(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.PresignUpload(ctx, "", "image/png")
	assert.ErrorIs(t, err, errEmptyKey)

	ticket, err := s.PresignUpload(ctx, "products/abc/image.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, "PUT", ticket.Method)
	assert.Equal(t, "products/abc/image.png", ticket.ObjectKey)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), ticket.ExpiresAt, 5*time.Second)

	u, err := url.Parse(ticket.UploadURL)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/product-images/products/abc/image.png"))
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestS3ImageStorage_DeleteObject_EmptyKey(t *testing.T) {
	s, err := NewS3ImageStorage(validConfig())
	require.NoError(t, err)
	assert.ErrorIs(t, s.DeleteObject(context.Background(), ""), errEmptyKey)
}
