package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	aws_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/config"
)

// S3API is the part of *s3.Client the storage uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3Storage implements IObjectStorage on AWS S3.
type s3Storage struct {
	client     S3API
	bucket     string
	publicBase string
}

// NewS3Storage creates a new S3 storage service from static credentials.
func NewS3Storage(cfg *config.Config) (IObjectStorage, error) {
	awsCfg, err := aws_config.LoadDefaultConfig(context.TODO(),
		aws_config.WithRegion(cfg.AwsRegion),
		aws_config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AwsAccessKeyID,
			cfg.AwsSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3StorageWithClient(s3.NewFromConfig(awsCfg), cfg), nil
}

// NewS3StorageWithClient wires an existing client, mainly for tests.
func NewS3StorageWithClient(client S3API, cfg *config.Config) IObjectStorage {
	base := cfg.ImageBaseS3URL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.AwsS3Bucket, cfg.AwsRegion)
	}
	return &s3Storage{client: client, bucket: cfg.AwsS3Bucket, publicBase: base}
}

func (s *s3Storage) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return s3Error(fmt.Sprintf("put %s", key), err)
	}
	return nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return s3Error(fmt.Sprintf("delete %s", key), err)
	}
	return nil
}

func (s *s3Storage) PublicURL(key string) string {
	return joinURL(s.publicBase, key)
}

func (s *s3Storage) KeyFromURL(urlOrKey string) string {
	return normalizeKey(urlOrKey, s.publicBase, s.bucket)
}

// s3Error keeps the service's error code and message for the caller.
func s3Error(op string, err error) error {
	ue := &apperr.UpstreamError{Service: "s3", Err: fmt.Errorf("%s: %w", op, err)}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		ue.Code = apiErr.ErrorCode()
		ue.Message = apiErr.ErrorMessage()
	}
	return ue
}
