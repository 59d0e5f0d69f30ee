package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/config"
)

// MinioAPI is the part of *minio.Client the storage uses.
type MinioAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// minioStorage implements IObjectStorage on any S3 compatible server, used for local
// development against a MinIO container.
type minioStorage struct {
	client     MinioAPI
	bucket     string
	publicBase string
}

// NewMinIOStorage connects to cfg.MinioEndpoint with the AWS credential pair.
func NewMinIOStorage(cfg *config.Config) (IObjectStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AwsAccessKeyID, cfg.AwsSecretAccessKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.AwsRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}
	return NewMinIOStorageWithClient(client, cfg), nil
}

// NewMinIOStorageWithClient wires an existing client, mainly for tests.
func NewMinIOStorageWithClient(client MinioAPI, cfg *config.Config) IObjectStorage {
	base := cfg.ImageBaseS3URL
	if base == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		// path-style addressing
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.AwsS3Bucket)
	}
	return &minioStorage{client: client, bucket: cfg.AwsS3Bucket, publicBase: base}
}

func (s *minioStorage) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return minioError(fmt.Sprintf("put %s", key), err)
	}
	return nil
}

func (s *minioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return minioError(fmt.Sprintf("delete %s", key), err)
	}
	return nil
}

func (s *minioStorage) PublicURL(key string) string {
	return joinURL(s.publicBase, key)
}

func (s *minioStorage) KeyFromURL(urlOrKey string) string {
	return normalizeKey(urlOrKey, s.publicBase, s.bucket)
}

func minioError(op string, err error) error {
	resp := minio.ToErrorResponse(err)
	return &apperr.UpstreamError{
		Service: "minio",
		Code:    resp.Code,
		Message: resp.Message,
		Err:     fmt.Errorf("%s: %w", op, err),
	}
}
