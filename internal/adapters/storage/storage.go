// Package storage provides the S3-compatible object store used to archive
// generated roster exports.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"registry_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const exportContentType = "application/pdf"

// MinIOService archives export files in a MinIO bucket.
type MinIOService struct {
	client *minio.Client
	bucket string
}

// NewMinIOService creates a MinIO-backed archive. Callers should check
// cfg.IsMinIOEnabled() first; an unconfigured endpoint is an error here.
func NewMinIOService(cfg config.MinIOConfig) (*MinIOService, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOService{
		client: client,
		bucket: cfg.GetMinioBucketExports(),
	}, nil
}

// EnsureBucketExists creates the exports bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// StoreExport uploads the export bytes under a date-prefixed object key and
// returns the full key used for storage.
func (s *MinIOService) StoreExport(ctx context.Context, objectKey string, data []byte) (string, error) {
	fullKey := filepath.ToSlash(filepath.Join(time.Now().UTC().Format("2006/01/02"), objectKey))

	_, err := s.client.PutObject(ctx, s.bucket, fullKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: exportContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload export %s: %w", fullKey, err)
	}
	return fullKey, nil
}
