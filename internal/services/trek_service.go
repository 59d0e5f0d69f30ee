package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/umorjyoti/trip-sub006/internal/db"
	"github.com/umorjyoti/trip-sub006/internal/models"
)

// ScrubResult counts the treks touched by an image scrub.
type ScrubResult struct {
	ImagesPulled   int64
	ImageURLsReset int64
}

// ITrekService is the narrow view of the trek catalogue this service needs.
type ITrekService interface {
	// FindByIDs returns the treks among ids, keyed by id. enabledOnly drops disabled treks.
	FindByIDs(ctx context.Context, ids []primitive.ObjectID, enabledOnly bool) (map[primitive.ObjectID]models.Trek, error)
	// ScrubImage removes urls from every trek's images and resets matching imageUrl
	// fields to the default image.
	ScrubImage(ctx context.Context, urls []string) (ScrubResult, error)
}

type trekService struct {
	db           *mongo.Database
	defaultImage string
}

// NewTrekService creates a new TrekService. An empty defaultImage uses models.DefaultTrekImage.
func NewTrekService(database *mongo.Database, defaultImage string) ITrekService {
	if defaultImage == "" {
		defaultImage = models.DefaultTrekImage
	}
	return &trekService{db: database, defaultImage: defaultImage}
}

var trekProjection = bson.M{"name": 1, "slug": 1, "imageUrl": 1, "images": 1, "isEnabled": 1}

func (s *trekService) FindByIDs(ctx context.Context, ids []primitive.ObjectID, enabledOnly bool) (map[primitive.ObjectID]models.Trek, error) {
	out := make(map[primitive.ObjectID]models.Trek, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	if enabledOnly {
		filter["isEnabled"] = true
	}
	cursor, err := s.db.Collection(db.TreksCollection).Find(ctx, filter, options.Find().SetProjection(trekProjection))
	if err != nil {
		return nil, fmt.Errorf("failed to query treks: %w", err)
	}
	var treks []models.Trek
	if err := cursor.All(ctx, &treks); err != nil {
		return nil, fmt.Errorf("failed to decode treks: %w", err)
	}
	for _, t := range treks {
		out[t.ID] = t
	}
	return out, nil
}

func (s *trekService) ScrubImage(ctx context.Context, urls []string) (ScrubResult, error) {
	var res ScrubResult
	if len(urls) == 0 {
		return res, nil
	}
	coll := s.db.Collection(db.TreksCollection)
	now := time.Now().UTC()

	pulled, err := coll.UpdateMany(ctx,
		bson.M{"images": bson.M{"$in": urls}},
		bson.M{"$pull": bson.M{"images": bson.M{"$in": urls}}, "$set": bson.M{"updatedAt": now}},
	)
	if err != nil {
		return res, fmt.Errorf("failed to pull image from treks: %w", err)
	}
	res.ImagesPulled = pulled.ModifiedCount

	reset, err := coll.UpdateMany(ctx,
		bson.M{"imageUrl": bson.M{"$in": urls}},
		bson.M{"$set": bson.M{"imageUrl": s.defaultImage, "updatedAt": now}},
	)
	if err != nil {
		return res, fmt.Errorf("failed to reset trek imageUrl: %w", err)
	}
	res.ImageURLsReset = reset.ModifiedCount
	return res, nil
}
