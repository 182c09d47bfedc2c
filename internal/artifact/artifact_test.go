package artifact

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PublishOpenRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(filepath.Join(dir, "videos"))
	require.NoError(t, err)

	rendered := filepath.Join(dir, "render-out.mp4")
	require.NoError(t, os.WriteFile(rendered, []byte("frames"), 0o644))

	url, err := s.Publish(ctx, "task-1", rendered)
	require.NoError(t, err)
	assert.Equal(t, "/api/videos/task-1.mp4", url)
	_, statErr := os.Stat(rendered)
	assert.True(t, os.IsNotExist(statErr), "rendered file should be moved")

	rc, err := s.Open(ctx, "task-1")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "frames", string(data))

	require.NoError(t, s.Remove(ctx, "task-1"))
	_, err = s.Open(ctx, "task-1")
	assert.ErrorIs(t, err, ErrNotFound)
	// Idempotent.
	assert.NoError(t, s.Remove(ctx, "task-1"))
}

func TestLocalStore_PathRejectsTraversal(t *testing.T) {
	s := &LocalStore{Dir: "/srv/videos"}
	assert.Equal(t, filepath.Join("/srv/videos", "evil.mp4"), s.Path("../../evil"))
	assert.Equal(t, filepath.Join("/srv/videos", "task-1.mp4"), s.Path(" task-1 "))
}

func TestNewS3Store_ValidatesConfig(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	assert.Error(t, err)
	_, err = NewS3Store(S3Config{Endpoint: "s3.example.com"})
	assert.Error(t, err)
	_, err = NewS3Store(S3Config{Endpoint: "s3.example.com", AccessKey: "k", SecretKey: "s"})
	assert.Error(t, err)

	s, err := NewS3Store(S3Config{
		Endpoint: "s3.example.com", AccessKey: "k", SecretKey: "s", Bucket: "videos",
	})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
}

func TestNewS3Store_URLExpiry(t *testing.T) {
	base := S3Config{
		Endpoint: "s3.example.com", AccessKey: "k", SecretKey: "s", Bucket: "videos",
	}

	s, err := NewS3Store(base)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, s.urlExpiry)

	cfg := base
	cfg.URLExpiry = 24 * time.Hour
	s, err = NewS3Store(cfg)
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, s.urlExpiry)

	cfg.URLExpiry = 30 * 24 * time.Hour
	s, err = NewS3Store(cfg)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, s.urlExpiry, "presign expiry is capped at seven days")
}
