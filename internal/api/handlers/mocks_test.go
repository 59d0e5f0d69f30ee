package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/umorjyoti/trip-sub006/internal/models"
	"github.com/umorjyoti/trip-sub006/internal/places"
	"github.com/umorjyoti/trip-sub006/internal/services"
	"github.com/umorjyoti/trip-sub006/internal/tasks"
)

// --- Mocks ---

// MockSettingsService implements services.ISettingsService
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) EnsureInstance(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}
func (m *MockSettingsService) GetInstance(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}
func (m *MockSettingsService) Update(ctx context.Context, patch *models.SettingsPatch) (*models.Settings, error) {
	args := m.Called(ctx, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Settings), args.Error(1)
}
func (m *MockSettingsService) GetEnquiryBanner(ctx context.Context) (*models.EnquiryBanner, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EnquiryBanner), args.Error(1)
}
func (m *MockSettingsService) hero(args mock.Arguments) (*models.PageHero, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PageHero), args.Error(1)
}
func (m *MockSettingsService) GetLandingPage(ctx context.Context) (*models.PageHero, error) {
	return m.hero(m.Called(ctx))
}
func (m *MockSettingsService) GetBlogPage(ctx context.Context) (*models.PageHero, error) {
	return m.hero(m.Called(ctx))
}
func (m *MockSettingsService) GetWeekendGetawayPage(ctx context.Context) (*models.PageHero, error) {
	return m.hero(m.Called(ctx))
}

// MockTrekSectionService implements services.ITrekSectionService
type MockTrekSectionService struct {
	mock.Mock
}

func (m *MockTrekSectionService) List(ctx context.Context) ([]models.TrekSection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TrekSection), args.Error(1)
}
func (m *MockTrekSectionService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PopulatedTrekSection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PopulatedTrekSection), args.Error(1)
}
func (m *MockTrekSectionService) Create(ctx context.Context, section *models.TrekSection) (*models.TrekSection, error) {
	args := m.Called(ctx, section)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrekSection), args.Error(1)
}
func (m *MockTrekSectionService) Update(ctx context.Context, id primitive.ObjectID, update *models.SectionUpdate) (*models.TrekSection, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TrekSection), args.Error(1)
}
func (m *MockTrekSectionService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockTrekSectionService) ListActivePopulated(ctx context.Context) ([]models.PopulatedTrekSection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PopulatedTrekSection), args.Error(1)
}

// MockNotificationService implements services.INotificationService
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) List(ctx context.Context, filter models.NotificationFilter, page, limit int) (*models.NotificationPage, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationPage), args.Error(1)
}
func (m *MockNotificationService) UnreadCount(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationService) MarkRead(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}
func (m *MockNotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockNotificationService) DeleteAllRead(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockNotificationService) Create(ctx context.Context, t models.NotificationType, title, message string, data map[string]interface{}, priority models.Priority) (*models.Notification, error) {
	args := m.Called(ctx, t, title, message, data, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

// MockUploadService implements services.IUploadService
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, file services.UploadFile) (*models.UploadedObject, error) {
	args := m.Called(ctx, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadedObject), args.Error(1)
}
func (m *MockUploadService) Delete(ctx context.Context, urlOrKey string) (*models.DeletionReport, error) {
	args := m.Called(ctx, urlOrKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeletionReport), args.Error(1)
}

// MockReviewFetcher implements handlers.IReviewFetcher
type MockReviewFetcher struct {
	mock.Mock
}

func (m *MockReviewFetcher) FetchReviews(ctx context.Context, placeID, placeName string) ([]places.Review, error) {
	args := m.Called(ctx, placeID, placeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]places.Review), args.Error(1)
}

// MockEmitter implements handlers.INotificationEmitter
type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) Emit(ctx context.Context, payload tasks.NotificationPayload) error {
	return m.Called(ctx, payload).Error(0)
}
