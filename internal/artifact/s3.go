package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config carries the connection settings for an S3-compatible backend.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// URLExpiry bounds how long presigned video links stay valid.
	URLExpiry time.Duration
}

// S3Store uploads rendered videos to an S3-compatible bucket and serves
// them through presigned URLs.
type S3Store struct {
	client    *minio.Client
	bucket    string
	region    string
	urlExpiry time.Duration

	initOnce sync.Once
	initErr  error
}

var _ Store = (*S3Store)(nil)

// NewS3Store validates the config and builds the client. The bucket is
// created lazily on first use.
func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	// SigV4 presigning caps expiry at seven days.
	if expiry > 7*24*time.Hour {
		expiry = 7 * 24 * time.Hour
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{
		client:    client,
		bucket:    bucket,
		region:    region,
		urlExpiry: expiry,
	}, nil
}

func (s *S3Store) ensureBucket(ctx context.Context) error {
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Publish uploads the video and returns a presigned GET link. The local
// file is removed after a successful upload.
func (s *S3Store) Publish(ctx context.Context, taskID, localPath string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("publish video %s: ensure bucket: %w", taskID, err)
	}
	_, err := s.client.FPutObject(ctx, s.bucket, objectKey(taskID), localPath,
		minio.PutObjectOptions{ContentType: "video/mp4"})
	if err != nil {
		return "", fmt.Errorf("publish video %s: %w", taskID, err)
	}
	if err := os.Remove(localPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("publish video %s: remove local copy: %w", taskID, err)
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey(taskID), s.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("publish video %s: presign: %w", taskID, err)
	}
	return u.String(), nil
}

// Open streams the stored video from the bucket.
func (s *S3Store) Open(ctx context.Context, taskID string) (io.ReadCloser, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("open video %s: ensure bucket: %w", taskID, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(taskID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("open video %s: %w", taskID, err)
	}
	// GetObject is lazy; surface a missing key now rather than on first read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, fmt.Errorf("open video %s: %w", taskID, ErrNotFound)
		}
		return nil, fmt.Errorf("open video %s: %w", taskID, err)
	}
	return obj, nil
}

// Remove deletes the stored object.
func (s *S3Store) Remove(ctx context.Context, taskID string) error {
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("remove video %s: ensure bucket: %w", taskID, err)
	}
	err := s.client.RemoveObject(ctx, s.bucket, objectKey(taskID), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove video %s: %w", taskID, err)
	}
	return nil
}

func objectKey(taskID string) string {
	return "videos/" + strings.TrimSpace(taskID) + ".mp4"
}
