package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IndexPlan lists the indexes each collection needs.
func IndexPlan() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		// One settings document, enforced by the store.
		SettingsCollection: {
			{Keys: bson.D{{Key: "key", Value: 1}}, Options: options.Index().SetUnique(true).SetName("key_unique")},
		},
		NotificationsCollection: {
			{Keys: bson.D{{Key: "isRead", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("isRead_createdAt")},
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}, Options: options.Index().SetName("type_createdAt")},
		},
		TrekSectionsCollection: {
			{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "displayOrder", Value: 1}}, Options: options.Index().SetName("isActive_displayOrder")},
		},
		TreksCollection: {
			{Keys: bson.D{{Key: "images", Value: 1}}, Options: options.Index().SetName("images")},
			{Keys: bson.D{{Key: "imageUrl", Value: 1}}, Options: options.Index().SetName("imageUrl")},
		},
	}
}

// EnsureIndexes creates every index in IndexPlan. Existing identical indexes are a no-op.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for coll, models := range IndexPlan() {
		if _, err := database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
