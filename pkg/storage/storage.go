package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
)

// Store issues presigned access to the attachment bucket. Attachment
// bytes never pass through the API; clients upload and download straight
// against the object store.
type Store interface {
	PresignPut(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
	PresignGet(ctx context.Context, objectKey string, expiry time.Duration) (string, error)
}

// MinioStore implements Store on a MinIO or S3-compatible bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

// NewMinioStore connects to the object store and makes sure the bucket
// exists.
func NewMinioStore(cfg *config.StorageConfig, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", cfg.Bucket, err)
		}
	}

	logger.Info("object store connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
	)

	return &MinioStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// PresignPut returns a URL the client can PUT the object bytes to.
func (s *MinioStore) PresignPut(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, s.bucket, objectKey, expiry)
	if err != nil {
		return "", fmt.Errorf("presign put %q: %w", objectKey, err)
	}
	return u.String(), nil
}

// PresignGet returns a URL the client can GET the object bytes from.
func (s *MinioStore) PresignGet(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, objectKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign get %q: %w", objectKey, err)
	}
	return u.String(), nil
}
