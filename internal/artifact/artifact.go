// Package artifact stores rendered videos and hands out URLs for serving
// them. The local store keeps files on disk behind the /api/videos route;
// the S3 store uploads them and returns presigned links.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a requested video does not exist.
var ErrNotFound = errors.New("video not found")

// Store persists rendered videos keyed by task ID.
type Store interface {
	// Publish stores the video at localPath for taskID and returns the URL
	// clients should fetch it from.
	Publish(ctx context.Context, taskID, localPath string) (string, error)
	// Open returns a reader for the stored video.
	Open(ctx context.Context, taskID string) (io.ReadCloser, error)
	// Remove deletes the stored video. Removing a missing video is not an
	// error.
	Remove(ctx context.Context, taskID string) error
}

// LocalStore serves videos straight from a directory on disk.
type LocalStore struct {
	Dir string
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create video dir %s: %w", dir, err)
	}
	return &LocalStore{Dir: dir}, nil
}

// Publish moves the rendered file into the store directory when it is not
// already there and returns the serving URL.
func (s *LocalStore) Publish(ctx context.Context, taskID, localPath string) (string, error) {
	dst := s.Path(taskID)
	if localPath != dst {
		if err := os.Rename(localPath, dst); err != nil {
			return "", fmt.Errorf("publish video %s: %w", taskID, err)
		}
	}
	return "/api/videos/" + taskID + ".mp4", nil
}

// Open returns the video file for reading.
func (s *LocalStore) Open(ctx context.Context, taskID string) (io.ReadCloser, error) {
	f, err := os.Open(s.Path(taskID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("open video %s: %w", taskID, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// Remove deletes the stored video file.
func (s *LocalStore) Remove(ctx context.Context, taskID string) error {
	err := os.Remove(s.Path(taskID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove video %s: %w", taskID, err)
	}
	return nil
}

// Path returns the on-disk location for a task's video.
func (s *LocalStore) Path(taskID string) string {
	// Task IDs are generated UUIDs, but never trust them as path input.
	name := filepath.Base(strings.TrimSpace(taskID))
	return filepath.Join(s.Dir, name+".mp4")
}
