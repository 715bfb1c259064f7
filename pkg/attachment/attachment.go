// Package attachment stores borrower permit documents. The engine never
// inspects an attachment beyond presence, size and content type; it keeps
// only the returned reference URL.
package attachment

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

const (
	// MaxSize is the hard cap on uploaded documents.
	MaxSize = 5 << 20 // 5 MB
)

var allowedTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Allowed reports whether the declared content type is an accepted document
// format.
func Allowed(contentType string) bool {
	_, ok := allowedTypes[contentType]
	return ok
}

// Store uploads a document and returns its reference URL.
type Store interface {
	Upload(ctx context.Context, file io.Reader, publicID string) (string, error)
}

type cloudinaryStore struct {
	cloudName string
	uploader  *uploader.API
}

// NewCloudinaryStore builds a Store backed by Cloudinary raw uploads.
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (Store, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &cloudinaryStore{cloudName: cloudName, uploader: up}, nil
}

func (s *cloudinaryStore) Upload(ctx context.Context, file io.Reader, publicID string) (string, error) {
	result, err := s.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:       "booking-documents",
		PublicID:     publicID,
		ResourceType: "raw",
	})
	if err != nil {
		return "", err
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: upload returned no URL")
	}
	return result.SecureURL, nil
}
