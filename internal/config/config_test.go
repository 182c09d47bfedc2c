package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "videos", cfg.VideoDir)
	assert.Equal(t, 24*time.Hour, cfg.TaskMaxAge.Std())
	assert.Equal(t, 2, cfg.MaxWorkers)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	yml := `
listenAddr: ":9000"
videoDir: /srv/videos
maxWorkers: 8
taskMaxAge: 48h
s3:
  endpoint: s3.example.com
  bucket: mathcast-videos
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mathcast.yml"), []byte(yml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/srv/videos", cfg.VideoDir)
	assert.Equal(t, 8, cfg.MaxWorkers)
	assert.Equal(t, 48*time.Hour, cfg.TaskMaxAge.Std())
	assert.Equal(t, "s3.example.com", cfg.S3.Endpoint)
	assert.Equal(t, "mathcast-videos", cfg.S3.Bucket)
	// Untouched keys keep defaults.
	assert.Equal(t, "tasks.json", cfg.TaskFile)
}

func TestLoad_S3URLExpiry(t *testing.T) {
	dir := t.TempDir()
	yml := `
s3:
  endpoint: s3.example.com
  bucket: mathcast-videos
  urlExpiry: 72h
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mathcast.yml"), []byte(yml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, cfg.S3.URLExpiry.Std())

	t.Setenv("MATHCAST_S3_URL_EXPIRY", "36h")
	cfg, err = Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 36*time.Hour, cfg.S3.URLExpiry.Std())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mathcast.yml"),
		[]byte("listenAddr: \":9000\"\n"), 0o644))
	t.Setenv("MATHCAST_LISTEN_ADDR", ":7777")
	t.Setenv("MATHCAST_MAX_WORKERS", "16")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.ListenAddr)
	assert.Equal(t, 16, cfg.MaxWorkers)
}

func TestLoad_DotEnvFeedsOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("MATHCAST_OCR_URL=http://ocr.internal:9000\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("MATHCAST_OCR_URL") })

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://ocr.internal:9000", cfg.OCRBaseURL)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mathcast.yml"),
		[]byte("listenAddr: [unterminated"), 0o644))
	_, err := Load(dir)
	assert.Error(t, err)
}
