package storage

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kanjinagahisa/carebridge-hub-sub000/pkg/config"
)

// Store wraps an S3-compatible object store holding attachment files.
type Store struct {
	client *minio.Client
	bucket string
}

// NewStore connects to the configured object store, or returns nil when no
// endpoint is configured (attachments then render without signed URLs).
func NewStore(cfg *config.Config) (*Store, error) {
	if cfg.S3Endpoint == "" {
		log.Println("WARN: object storage not configured, signed URLs disabled.")
		return nil, nil
	}

	client, err := minio.New(cfg.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		Secure: cfg.S3UseSSL,
	})
	if err != nil {
		return nil, err
	}

	log.Println("Successfully connected to object storage!")
	return &Store{client: client, bucket: cfg.S3Bucket}, nil
}

// PresignGet generates a time-limited GET URL for the object at path.
func (s *Store) PresignGet(ctx context.Context, path string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Exists verifies the object by listing at its path prefix.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: path, MaxKeys: 1}) {
		if obj.Err != nil {
			return false, obj.Err
		}
		return true, nil
	}
	return false, nil
}

// Upload writes an object to the bucket.
func (s *Store) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, reader, size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

// Remove deletes an object from the bucket.
func (s *Store) Remove(ctx context.Context, path string) error {
	return s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
}
