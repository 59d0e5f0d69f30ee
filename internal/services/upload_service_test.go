package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/cache"
	"github.com/umorjyoti/trip-sub006/internal/config"
	"github.com/umorjyoti/trip-sub006/internal/models"
	"github.com/umorjyoti/trip-sub006/internal/storage"
)

// MockObjectStorage implements storage.IObjectStorage. URL mapping uses the real S3 rules.
type MockObjectStorage struct {
	mock.Mock
	urls storage.IObjectStorage
}

func newMockObjectStorage() *MockObjectStorage {
	cfg := &config.Config{AwsS3Bucket: "trek-media", AwsRegion: "ap-south-1"}
	return &MockObjectStorage{urls: storage.NewS3StorageWithClient(nil, cfg)}
}

func (m *MockObjectStorage) Put(ctx context.Context, key, contentType string, body []byte) error {
	args := m.Called(ctx, key, contentType, body)
	return args.Error(0)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockObjectStorage) PublicURL(key string) string { return m.urls.PublicURL(key) }

func (m *MockObjectStorage) KeyFromURL(urlOrKey string) string { return m.urls.KeyFromURL(urlOrKey) }

// MockTrekService implements ITrekService.
type MockTrekService struct {
	mock.Mock
}

func (m *MockTrekService) FindByIDs(ctx context.Context, ids []primitive.ObjectID, enabledOnly bool) (map[primitive.ObjectID]models.Trek, error) {
	args := m.Called(ctx, ids, enabledOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[primitive.ObjectID]models.Trek), args.Error(1)
}

func (m *MockTrekService) ScrubImage(ctx context.Context, urls []string) (ScrubResult, error) {
	args := m.Called(ctx, urls)
	return args.Get(0).(ScrubResult), args.Error(1)
}

func newTestUploadService(store *MockObjectStorage, treks *MockTrekService) *uploadService {
	cfg := &config.Config{UploadMaxSizeMB: 1, ImageMaxDimension: 0}
	svc := NewUploadService(store, treks, nil, cfg, logr.Discard()).(*uploadService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestUploadService_Upload(t *testing.T) {
	store := newMockObjectStorage()
	svc := newTestUploadService(store, new(MockTrekService))
	data := []byte("GIF89a....")

	store.On("Put", mock.Anything, "uploads/1700000000000-summit.gif", "image/gif", data).Return(nil)

	obj, err := svc.Upload(context.Background(), UploadFile{Filename: "summit.gif", ContentType: "image/GIF", Data: data})
	require.NoError(t, err)
	assert.Equal(t, "uploads/1700000000000-summit.gif", obj.Key)
	assert.Equal(t, "https://trek-media.s3.ap-south-1.amazonaws.com/uploads/1700000000000-summit.gif", obj.URL)
	assert.Equal(t, "image/gif", obj.ContentType)
	store.AssertExpectations(t)
}

func TestUploadService_UploadRejections(t *testing.T) {
	store := newMockObjectStorage()
	svc := newTestUploadService(store, new(MockTrekService))

	cases := map[string]UploadFile{
		"type":  {Filename: "x.exe", ContentType: "application/x-msdownload", Data: []byte("MZ")},
		"empty": {Filename: "x.png", ContentType: "image/png"},
		"size":  {Filename: "x.pdf", ContentType: "application/pdf", Data: make([]byte, 1024*1024+1)},
	}
	for name, file := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), file)
			var ve *apperr.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
		})
	}

	_, err := svc.Upload(context.Background(), cases["size"])
	assert.Contains(t, err.Error(), "exceeds the limit of 1.0 MiB")

	// the handler stops reading one byte past the limit; the declared size is reported
	truncated := UploadFile{Filename: "x.pdf", ContentType: "application/pdf", Data: make([]byte, 1024*1024+1), Size: 5 * 1024 * 1024}
	_, err = svc.Upload(context.Background(), truncated)
	assert.Contains(t, err.Error(), "file is 5.0 MiB, the limit is 1.0 MiB")
	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadService_UploadPassesUpstreamError(t *testing.T) {
	store := newMockObjectStorage()
	svc := newTestUploadService(store, new(MockTrekService))
	upstream := &apperr.UpstreamError{Service: "s3", Code: "AccessDenied", Message: "Access Denied"}
	store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(upstream)

	_, err := svc.Upload(context.Background(), UploadFile{Filename: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")})
	assert.Same(t, upstream, err)
}

func TestUploadService_DeleteByURLScrubsTreks(t *testing.T) {
	store := newMockObjectStorage()
	treks := new(MockTrekService)
	svc := newTestUploadService(store, treks)
	url := "https://trek-media.s3.ap-south-1.amazonaws.com/uploads/1700000000000-summit.jpg"

	store.On("Delete", mock.Anything, "uploads/1700000000000-summit.jpg").Return(nil)
	treks.On("ScrubImage", mock.Anything, []string{url}).Return(ScrubResult{ImagesPulled: 2, ImageURLsReset: 1}, nil)

	report, err := svc.Delete(context.Background(), url)
	require.NoError(t, err)
	assert.Equal(t, &models.DeletionReport{
		Key: "uploads/1700000000000-summit.jpg", URL: url, ImagesPulled: 2, ImageURLsReset: 1,
	}, report)
	store.AssertExpectations(t)
	treks.AssertExpectations(t)
}

func TestUploadService_DeleteInvalidatesActiveSections(t *testing.T) {
	store := newMockObjectStorage()
	treks := new(MockTrekService)
	c := newMiniCache(t)
	ctx := context.Background()
	svc := NewUploadService(store, treks, c, &config.Config{UploadMaxSizeMB: 1}, logr.Discard())
	url := "https://trek-media.s3.ap-south-1.amazonaws.com/uploads/a.png"

	stored := []models.PopulatedTrekSection{{Treks: []models.Trek{{Name: "Kedarkantha", ImageURL: url}}}}
	require.NoError(t, c.Set(ctx, cache.KeyActiveSections, stored))

	store.On("Delete", mock.Anything, "uploads/a.png").Return(nil)
	treks.On("ScrubImage", mock.Anything, []string{url}).Return(ScrubResult{ImageURLsReset: 1}, nil)

	_, err := svc.Delete(ctx, url)
	require.NoError(t, err)
	var got []models.PopulatedTrekSection
	assert.ErrorIs(t, c.Get(ctx, cache.KeyActiveSections, &got), cache.ErrMiss)
}

func TestUploadService_DeleteWithoutTrekChangesKeepsCache(t *testing.T) {
	store := newMockObjectStorage()
	treks := new(MockTrekService)
	c := newMiniCache(t)
	ctx := context.Background()
	svc := NewUploadService(store, treks, c, &config.Config{UploadMaxSizeMB: 1}, logr.Discard())

	require.NoError(t, c.Set(ctx, cache.KeyActiveSections, []models.PopulatedTrekSection{}))
	store.On("Delete", mock.Anything, "uploads/b.png").Return(nil)
	treks.On("ScrubImage", mock.Anything, mock.Anything).Return(ScrubResult{}, nil)

	_, err := svc.Delete(ctx, "uploads/b.png")
	require.NoError(t, err)
	var got []models.PopulatedTrekSection
	assert.NoError(t, c.Get(ctx, cache.KeyActiveSections, &got))
}

func TestUploadService_DeleteByKeyUsesCanonicalURL(t *testing.T) {
	store := newMockObjectStorage()
	treks := new(MockTrekService)
	svc := newTestUploadService(store, treks)

	store.On("Delete", mock.Anything, "uploads/a.png").Return(nil)
	treks.On("ScrubImage", mock.Anything, []string{"https://trek-media.s3.ap-south-1.amazonaws.com/uploads/a.png"}).
		Return(ScrubResult{}, nil)

	_, err := svc.Delete(context.Background(), "/uploads/a.png")
	require.NoError(t, err)
	treks.AssertExpectations(t)
}

func TestUploadService_DeleteMatchesForeignURLToo(t *testing.T) {
	store := newMockObjectStorage()
	treks := new(MockTrekService)
	svc := newTestUploadService(store, treks)
	foreign := "https://cdn.example.com/uploads/a.png"

	store.On("Delete", mock.Anything, "uploads/a.png").Return(nil)
	treks.On("ScrubImage", mock.Anything, mock.MatchedBy(func(urls []string) bool {
		return len(urls) == 2 && urls[1] == foreign
	})).Return(ScrubResult{}, nil)

	_, err := svc.Delete(context.Background(), foreign)
	require.NoError(t, err)
	treks.AssertExpectations(t)
}

func TestUploadService_DeleteStoreFailureSkipsScrub(t *testing.T) {
	store := newMockObjectStorage()
	treks := new(MockTrekService)
	svc := newTestUploadService(store, treks)
	store.On("Delete", mock.Anything, "uploads/a.png").Return(&apperr.UpstreamError{Service: "s3", Code: "AccessDenied"})

	_, err := svc.Delete(context.Background(), "uploads/a.png")
	var ue *apperr.UpstreamError
	require.True(t, errors.As(err, &ue))
	treks.AssertNotCalled(t, "ScrubImage", mock.Anything, mock.Anything)
}

func TestUploadService_DeleteScrubFailureReportsPartialState(t *testing.T) {
	store := newMockObjectStorage()
	treks := new(MockTrekService)
	svc := newTestUploadService(store, treks)
	store.On("Delete", mock.Anything, "uploads/a.png").Return(nil)
	treks.On("ScrubImage", mock.Anything, mock.Anything).Return(ScrubResult{ImagesPulled: 1}, errors.New("connection reset"))

	report, err := svc.Delete(context.Background(), "uploads/a.png")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "deleted, trek cleanup failed"))
	require.NotNil(t, report)
	assert.Equal(t, int64(1), report.ImagesPulled)
}

func TestUploadService_DeleteEmpty(t *testing.T) {
	svc := newTestUploadService(newMockObjectStorage(), new(MockTrekService))
	_, err := svc.Delete(context.Background(), "   ")
	var ve *apperr.ValidationError
	assert.True(t, errors.As(err, &ve))
}
