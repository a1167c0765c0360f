package media

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/nano-social/backend/internal/testutil/tests3"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("u1", "Holiday.JPG")
	assert.True(t, strings.HasPrefix(key, "uploads/u1/"), key)
	assert.True(t, strings.HasSuffix(key, ".jpg"), key)
	assert.NotEqual(t, key, ObjectKey("u1", "Holiday.JPG"))

	assert.False(t, strings.Contains(ObjectKey("u1", "noext"), "."))
	assert.False(t, strings.HasSuffix(ObjectKey("u1", "a.has space"), " space"))
}

func TestKeyFromURL(t *testing.T) {
	tests := []struct {
		name, base, url, want string
		ok                    bool
	}{
		{"plain", "https://cdn.example.com", "https://cdn.example.com/uploads/u1/a.jpg", "uploads/u1/a.jpg", true},
		{"trailing slash base", "https://cdn.example.com/", "https://cdn.example.com/uploads/a.jpg", "uploads/a.jpg", true},
		{"query stripped", "https://cdn.example.com", "https://cdn.example.com/a.jpg?token=x", "a.jpg", true},
		{"foreign host", "https://cdn.example.com", "https://evil.example.com/a.jpg", "", false},
		{"base only", "https://cdn.example.com", "https://cdn.example.com/", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyFromURL(tt.base, tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAllowedContentType(t *testing.T) {
	assert.True(t, AllowedContentType("image/png"))
	assert.True(t, AllowedContentType("Video/MP4"))
	assert.False(t, AllowedContentType("application/pdf"))
	assert.False(t, AllowedContentType(""))
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Upload(context.Background(), "k", strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, ErrDisabled)
	assert.NoError(t, Disabled{}.Delete(context.Background(), "https://x/y"))
}

func TestS3Store(t *testing.T) {
	if testing.Short() {
		t.Skip("localstack container test skipped in -short mode")
	}
	client, endpoint := tests3.StartS3(t)
	ctx := context.Background()
	store := newS3Store(client, S3Config{
		Bucket:  tests3.Bucket,
		Prefix:  "/media/",
		BaseURL: endpoint + "/" + tests3.Bucket,
	})

	url, err := store.Upload(ctx, "uploads/u1/a.txt", strings.NewReader("hello"), 5, "image/png")
	require.NoError(t, err)
	assert.Equal(t, endpoint+"/"+tests3.Bucket+"/media/uploads/u1/a.txt", url)

	key := "media/uploads/u1/a.txt"
	obj, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: &store.bucket, Key: &key})
	require.NoError(t, err)
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	_ = obj.Body.Close()
	assert.Equal(t, "hello", string(body))

	require.NoError(t, store.Delete(ctx, url))
	_, err = client.GetObject(ctx, &s3.GetObjectInput{Bucket: &store.bucket, Key: &key})
	assert.Error(t, err)

	require.NoError(t, store.Delete(ctx, "https://elsewhere.example.com/x"))
}
