package storage_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/config"
	"github.com/umorjyoti/trip-sub006/internal/storage"
)

type MockS3 struct {
	mock.Mock
}

func (m *MockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

type MockMinio struct {
	mock.Mock
}

func (m *MockMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, objectSize, opts.ContentType)
	return minio.UploadInfo{Bucket: bucketName, Key: objectName, Size: objectSize}, args.Error(0)
}

func (m *MockMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func s3Cfg() *config.Config {
	return &config.Config{AwsS3Bucket: "trek-media", AwsRegion: "ap-south-1"}
}

func TestBuildKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "uploads/1700000000123-hampta-pass.jpg", storage.BuildKey("", "hampta pass.jpg", now))
	assert.Equal(t, "treks/banners/1700000000123-passwd", storage.BuildKey("treks/../banners", "../../etc/passwd", now))
	assert.Equal(t, "uploads/1700000000123-file", storage.BuildKey("//", "...", now))
}

func TestS3Storage_PublicURLAndKeyRoundTrip(t *testing.T) {
	st := storage.NewS3StorageWithClient(new(MockS3), s3Cfg())
	key := "uploads/1700000000123-kedarkantha.jpg"

	url := st.PublicURL(key)
	assert.Equal(t, "https://trek-media.s3.ap-south-1.amazonaws.com/uploads/1700000000123-kedarkantha.jpg", url)
	assert.Equal(t, key, st.KeyFromURL(url))
	assert.Equal(t, key, st.KeyFromURL(key))
	assert.Equal(t, key, st.KeyFromURL("/"+key))
}

func TestS3Storage_KeyFromURLVariants(t *testing.T) {
	st := storage.NewS3StorageWithClient(new(MockS3), s3Cfg())
	// path-style URL carries the bucket as the first segment
	assert.Equal(t, "uploads/a b.jpg", st.KeyFromURL("https://s3.ap-south-1.amazonaws.com/trek-media/uploads/a%20b.jpg"))
	assert.Equal(t, "uploads/a b.jpg", st.KeyFromURL("uploads/a%20b.jpg"))
	assert.Equal(t, "uploads/x.png", st.KeyFromURL("  https://cdn.example.com/uploads/x.png  "))
}

func TestS3Storage_CustomPublicBase(t *testing.T) {
	cfg := s3Cfg()
	cfg.ImageBaseS3URL = "https://cdn.example.com/media"
	st := storage.NewS3StorageWithClient(new(MockS3), cfg)
	assert.Equal(t, "https://cdn.example.com/media/uploads/x.png", st.PublicURL("uploads/x.png"))
	assert.Equal(t, "uploads/x.png", st.KeyFromURL("https://cdn.example.com/media/uploads/x.png"))
}

func TestS3Storage_Put(t *testing.T) {
	api := new(MockS3)
	st := storage.NewS3StorageWithClient(api, s3Cfg())
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "trek-media" && *in.Key == "uploads/k.jpg" && *in.ContentType == "image/jpeg"
	})).Return(&s3.PutObjectOutput{}, nil)

	require.NoError(t, st.Put(context.Background(), "uploads/k.jpg", "image/jpeg", []byte{0xff, 0xd8}))
	api.AssertExpectations(t)
}

func TestS3Storage_DeleteKeepsUpstreamCode(t *testing.T) {
	api := new(MockS3)
	st := storage.NewS3StorageWithClient(api, s3Cfg())
	api.On("DeleteObject", mock.Anything, mock.Anything).
		Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"})

	err := st.Delete(context.Background(), "uploads/k.jpg")
	var ue *apperr.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "s3", ue.Service)
	assert.Equal(t, "AccessDenied", ue.Code)
	assert.Equal(t, "Access Denied", ue.Message)
}

func TestMinIOStorage(t *testing.T) {
	api := new(MockMinio)
	cfg := &config.Config{AwsS3Bucket: "trek-media", MinioEndpoint: "localhost:9000"}
	st := storage.NewMinIOStorageWithClient(api, cfg)

	assert.Equal(t, "http://localhost:9000/trek-media/uploads/k.png", st.PublicURL("uploads/k.png"))
	assert.Equal(t, "uploads/k.png", st.KeyFromURL("http://localhost:9000/trek-media/uploads/k.png"))

	api.On("PutObject", mock.Anything, "trek-media", "uploads/k.png", int64(3), "image/png").Return(nil)
	require.NoError(t, st.Put(context.Background(), "uploads/k.png", "image/png", []byte("png")))

	api.On("RemoveObject", mock.Anything, "trek-media", "uploads/k.png").
		Return(minio.ErrorResponse{Code: "NoSuchBucket", Message: "The specified bucket does not exist"})
	err := st.Delete(context.Background(), "uploads/k.png")
	var ue *apperr.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "NoSuchBucket", ue.Code)
	api.AssertExpectations(t)
}
