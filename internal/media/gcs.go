package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSStore writes to a Firebase Storage (Cloud Storage) bucket.
type GCSStore struct {
	bucket  *storage.BucketHandle
	baseURL string
}

// NewGCSStore wraps a bucket handle. baseURL defaults to the public
// storage.googleapis.com address of the bucket.
func NewGCSStore(bucket *storage.BucketHandle, bucketName, baseURL string) *GCSStore {
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com/" + bucketName
	}
	return &GCSStore{bucket: bucket, baseURL: baseURL}
}

func (s *GCSStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("media: write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("media: finalize object %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes the object behind url. Foreign URLs and objects that are
// already gone are not errors.
func (s *GCSStore) Delete(ctx context.Context, url string) error {
	key, ok := KeyFromURL(s.baseURL, url)
	if !ok {
		return nil
	}
	err := s.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("media: delete object %s: %w", key, err)
	}
	return nil
}
