package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/apperr"
)

type memoryBlobs struct {
	objects map[string][]byte
}

func (b *memoryBlobs) Upload(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	b.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (b *memoryBlobs) Delete(_ context.Context, url string) error {
	delete(b.objects, strings.TrimPrefix(url, "https://cdn.example.com/"))
	return nil
}

func TestMediaUpload(t *testing.T) {
	ctx := context.Background()
	blobs := &memoryBlobs{objects: map[string][]byte{}}
	svc := NewMediaService(blobs, 16)

	url, err := svc.Upload(ctx, "alice", "Cat.PNG", "image/png", 4, bytes.NewReader([]byte("meow")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://cdn.example.com/uploads/alice/"))
	assert.True(t, strings.HasSuffix(url, ".png"))
	require.Len(t, blobs.objects, 1)

	tests := []struct {
		name        string
		contentType string
		size        int64
		kind        apperr.Kind
	}{
		{name: "wrong type", contentType: "application/pdf", size: 4, kind: apperr.KindInvalidInput},
		{name: "empty", contentType: "image/png", size: 0, kind: apperr.KindInvalidInput},
		{name: "too large", contentType: "video/mp4", size: 17, kind: apperr.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, "alice", "f", tt.contentType, tt.size, strings.NewReader("x"))
			assert.Equal(t, tt.kind, apperr.KindOf(err))
		})
	}
}

func TestMediaUploadDisabled(t *testing.T) {
	svc := NewMediaService(nil, 0)
	_, err := svc.Upload(context.Background(), "alice", "a.png", "image/png", 1, strings.NewReader("x"))
	assert.Equal(t, apperr.KindDependencyFailure, apperr.KindOf(err))
}
