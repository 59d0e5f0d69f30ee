package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/umorjyoti/trip-sub006/internal/apperr"
	"github.com/umorjyoti/trip-sub006/internal/cache"
	"github.com/umorjyoti/trip-sub006/internal/db"
	"github.com/umorjyoti/trip-sub006/internal/models"
)

// ITrekSectionService manages the curated homepage sections.
type ITrekSectionService interface {
	List(ctx context.Context) ([]models.TrekSection, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.PopulatedTrekSection, error)
	Create(ctx context.Context, section *models.TrekSection) (*models.TrekSection, error)
	Update(ctx context.Context, id primitive.ObjectID, update *models.SectionUpdate) (*models.TrekSection, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ListActivePopulated returns active sections in display order with only enabled
	// treks resolved. This is the public homepage read.
	ListActivePopulated(ctx context.Context) ([]models.PopulatedTrekSection, error)
}

type trekSectionService struct {
	db    *mongo.Database
	treks ITrekService
	cache cache.ICache
	log   logr.Logger
}

// NewTrekSectionService creates a new TrekSectionService.
func NewTrekSectionService(database *mongo.Database, treks ITrekService, c cache.ICache, log logr.Logger) ITrekSectionService {
	if c == nil {
		c = cache.Noop{}
	}
	return &trekSectionService{db: database, treks: treks, cache: c, log: log}
}

func (s *trekSectionService) collection() *mongo.Collection {
	return s.db.Collection(db.TrekSectionsCollection)
}

func displayOrderSort() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "displayOrder", Value: 1}, {Key: "createdAt", Value: 1}})
}

func (s *trekSectionService) find(ctx context.Context, filter bson.M) ([]models.TrekSection, error) {
	cursor, err := s.collection().Find(ctx, filter, displayOrderSort())
	if err != nil {
		return nil, fmt.Errorf("failed to query trek sections: %w", err)
	}
	sections := []models.TrekSection{}
	if err := cursor.All(ctx, &sections); err != nil {
		return nil, fmt.Errorf("failed to decode trek sections: %w", err)
	}
	return sections, nil
}

func (s *trekSectionService) List(ctx context.Context) ([]models.TrekSection, error) {
	return s.find(ctx, bson.M{})
}

func (s *trekSectionService) load(ctx context.Context, id primitive.ObjectID) (*models.TrekSection, error) {
	var section models.TrekSection
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&section)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("trek section", id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load trek section %s: %w", id.Hex(), err)
	}
	return &section, nil
}

func (s *trekSectionService) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PopulatedTrekSection, error) {
	section, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	populated, err := s.populate(ctx, []models.TrekSection{*section}, false)
	if err != nil {
		return nil, err
	}
	return &populated[0], nil
}

func (s *trekSectionService) Create(ctx context.Context, section *models.TrekSection) (*models.TrekSection, error) {
	if err := section.Validate(); err != nil {
		return nil, err
	}
	section.GenIDIfEmpty()
	section.Touch(time.Now().UTC())
	if section.Treks == nil {
		section.Treks = []primitive.ObjectID{}
	}
	if _, err := s.collection().InsertOne(ctx, section); err != nil {
		return nil, fmt.Errorf("failed to insert trek section: %w", err)
	}
	invalidate(ctx, s.cache, s.log, cache.KeyActiveSections)
	s.log.Info("trek section created", "id", section.ID.Hex(), "type", section.Type)
	return section, nil
}

func (s *trekSectionService) Update(ctx context.Context, id primitive.ObjectID, update *models.SectionUpdate) (*models.TrekSection, error) {
	section, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(section)
	if err := section.Validate(); err != nil {
		return nil, err
	}

	set := bson.M{
		"title":        section.Title,
		"description":  section.Description,
		"treks":        section.Treks,
		"displayOrder": section.DisplayOrder,
		"isActive":     section.IsActive,
		"updatedAt":    time.Now().UTC(),
	}
	if section.Banner != nil {
		set["banner"] = section.Banner
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.TrekSection
	err = s.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("trek section", id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update trek section %s: %w", id.Hex(), err)
	}
	invalidate(ctx, s.cache, s.log, cache.KeyActiveSections)
	return &updated, nil
}

func (s *trekSectionService) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete trek section %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("trek section", id.Hex())
	}
	invalidate(ctx, s.cache, s.log, cache.KeyActiveSections)
	s.log.Info("trek section deleted", "id", id.Hex())
	return nil
}

func (s *trekSectionService) ListActivePopulated(ctx context.Context) ([]models.PopulatedTrekSection, error) {
	return readThrough(ctx, s.cache, s.log, cache.KeyActiveSections, func() ([]models.PopulatedTrekSection, error) {
		sections, err := s.find(ctx, bson.M{"isActive": true})
		if err != nil {
			return nil, err
		}
		return s.populate(ctx, sections, true)
	})
}

// populate resolves every section's trek ids with one catalogue query.
func (s *trekSectionService) populate(ctx context.Context, sections []models.TrekSection, enabledOnly bool) ([]models.PopulatedTrekSection, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, sec := range sections {
		for _, id := range sec.Treks {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	byID, err := s.treks.FindByIDs(ctx, ids, enabledOnly)
	if err != nil {
		return nil, err
	}
	out := make([]models.PopulatedTrekSection, 0, len(sections))
	for _, sec := range sections {
		out = append(out, models.Populate(sec, byID))
	}
	return out, nil
}
