package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/umorjyoti/trip-sub006/internal/cache"
	"github.com/umorjyoti/trip-sub006/internal/db"
	"github.com/umorjyoti/trip-sub006/internal/models"
)

// ISettingsService gives access to the site settings singleton.
type ISettingsService interface {
	// EnsureInstance creates the settings document with defaults if it does not exist.
	EnsureInstance(ctx context.Context) (*models.Settings, error)
	GetInstance(ctx context.Context) (*models.Settings, error)
	// Update merges patch into the stored settings. Groups and keys absent from the
	// patch keep their stored values.
	Update(ctx context.Context, patch *models.SettingsPatch) (*models.Settings, error)
	GetEnquiryBanner(ctx context.Context) (*models.EnquiryBanner, error)
	GetLandingPage(ctx context.Context) (*models.PageHero, error)
	GetBlogPage(ctx context.Context) (*models.PageHero, error)
	GetWeekendGetawayPage(ctx context.Context) (*models.PageHero, error)
}

// settingsService implements ISettingsService.
type settingsService struct {
	db    *mongo.Database
	cache cache.ICache
	log   logr.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(database *mongo.Database, c cache.ICache, log logr.Logger) ISettingsService {
	if c == nil {
		c = cache.Noop{}
	}
	return &settingsService{db: database, cache: c, log: log}
}

func (s *settingsService) collection() *mongo.Collection {
	return s.db.Collection(db.SettingsCollection)
}

func singletonFilter() bson.M {
	return bson.M{"key": models.SettingsKey}
}

// EnsureInstance upserts on the unique key, so concurrent callers converge on one document.
func (s *settingsService) EnsureInstance(ctx context.Context) (*models.Settings, error) {
	defaults := models.DefaultSettings()
	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"enquiryBanner":      defaults.EnquiryBanner,
		"landingPage":        defaults.LandingPage,
		"blogPage":           defaults.BlogPage,
		"weekendGetawayPage": defaults.WeekendGetawayPage,
		"createdAt":          now,
		"updatedAt":          now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var settings models.Settings
	err := db.Try(ctx, func() error {
		return s.collection().FindOneAndUpdate(ctx, singletonFilter(), update, opts).Decode(&settings)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure settings document: %w", err)
	}
	return &settings, nil
}

func (s *settingsService) GetInstance(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := s.collection().FindOne(ctx, singletonFilter()).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		s.log.Info("settings document missing, creating with defaults")
		return s.EnsureInstance(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

func (s *settingsService) Update(ctx context.Context, patch *models.SettingsPatch) (*models.Settings, error) {
	current, err := s.GetInstance(ctx)
	if err != nil {
		return nil, err
	}
	if patch == nil || patch.IsEmpty() {
		return current, nil
	}

	merged := *current
	patch.Apply(&merged)
	if err := patch.ValidateAgainst(&merged); err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	for path, v := range patch.SetFields() {
		set[path] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Settings
	err = s.collection().FindOneAndUpdate(ctx, singletonFilter(), bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	invalidate(ctx, s.cache, s.log, cache.SettingsKeys...)
	s.log.Info("settings updated", "fields", len(set)-1)
	return &updated, nil
}

func (s *settingsService) GetEnquiryBanner(ctx context.Context) (*models.EnquiryBanner, error) {
	banner, err := readThrough(ctx, s.cache, s.log, cache.KeyEnquiryBanner, func() (models.EnquiryBanner, error) {
		settings, err := s.GetInstance(ctx)
		if err != nil {
			return models.EnquiryBanner{}, err
		}
		return settings.EnquiryBanner, nil
	})
	if err != nil {
		return nil, err
	}
	return &banner, nil
}

func (s *settingsService) GetLandingPage(ctx context.Context) (*models.PageHero, error) {
	return s.hero(ctx, cache.KeyLandingPage, func(st *models.Settings) models.PageHero { return st.LandingPage })
}

func (s *settingsService) GetBlogPage(ctx context.Context) (*models.PageHero, error) {
	return s.hero(ctx, cache.KeyBlogPage, func(st *models.Settings) models.PageHero { return st.BlogPage })
}

func (s *settingsService) GetWeekendGetawayPage(ctx context.Context) (*models.PageHero, error) {
	return s.hero(ctx, cache.KeyWeekendGetawayPage, func(st *models.Settings) models.PageHero { return st.WeekendGetawayPage })
}

func (s *settingsService) hero(ctx context.Context, key string, pick func(*models.Settings) models.PageHero) (*models.PageHero, error) {
	hero, err := readThrough(ctx, s.cache, s.log, key, func() (models.PageHero, error) {
		settings, err := s.GetInstance(ctx)
		if err != nil {
			return models.PageHero{}, err
		}
		return pick(settings), nil
	})
	if err != nil {
		return nil, err
	}
	return &hero, nil
}
