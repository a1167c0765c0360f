package services

import (
	"context"
	"errors"
	"io"

	"github.com/anonto42/nano-social/backend/internal/apperr"
	"github.com/anonto42/nano-social/backend/internal/media"
)

// MediaService validates uploads and stores them in the blob store.
type MediaService struct {
	blobs    media.BlobStore
	maxBytes int64
}

func NewMediaService(blobs media.BlobStore, maxBytes int64) *MediaService {
	if blobs == nil {
		blobs = media.Disabled{}
	}
	return &MediaService{blobs: blobs, maxBytes: maxBytes}
}

// Upload stores an image or video owned by callerID and returns its URL.
func (s *MediaService) Upload(ctx context.Context, callerID, filename, contentType string, size int64, body io.Reader) (string, error) {
	if !media.AllowedContentType(contentType) {
		return "", apperr.Newf(apperr.KindInvalidInput, "Unsupported content type %q", contentType)
	}
	if size <= 0 {
		return "", apperr.InvalidInput("File is empty")
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return "", apperr.Newf(apperr.KindInvalidInput, "File exceeds maximum size of %d bytes", s.maxBytes)
	}
	url, err := s.blobs.Upload(ctx, media.ObjectKey(callerID, filename), io.LimitReader(body, size), size, contentType)
	if errors.Is(err, media.ErrDisabled) {
		return "", apperr.Wrap(apperr.KindDependencyFailure, "Media uploads are disabled", err)
	}
	if err != nil {
		return "", apperr.Wrap(apperr.KindDependencyFailure, "Failed to store media", err)
	}
	return url, nil
}
