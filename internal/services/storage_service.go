package services

import (
	"context"
	"fmt"

	"autorag/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService keeps original uploads in S3-compatible object storage so
// the local upload directory can be treated as scratch space.
type StorageService struct {
	client *minio.Client
	bucket string
}

// NewStorageService creates a new object storage service instance
func NewStorageService(cfg config.StorageConfig) (*StorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, NewRemoteServiceError("storage", "connect", err, "")
	}

	return &StorageService{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet
func (s *StorageService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return NewRemoteServiceError("storage", "ensure_bucket", err, "")
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return NewRemoteServiceError("storage", "ensure_bucket", err, "")
	}
	return nil
}

// UploadFile stores a local file under objectName and returns the durable
// storage URI.
func (s *StorageService) UploadFile(ctx context.Context, localPath, objectName string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.bucket, objectName, localPath, minio.PutObjectOptions{})
	if err != nil {
		return "", NewRemoteServiceError("storage", "upload_file", err, "")
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, objectName), nil
}

// DeleteObject removes a stored object. A missing object is not an error.
func (s *StorageService) DeleteObject(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return NewRemoteServiceError("storage", "delete_object", err, "")
	}
	return nil
}
