package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultTrekImage replaces a trek's imageUrl when its image object is deleted.
const DefaultTrekImage = "default-trek.jpg"

// Trek is the subset of a trek document this service reads and writes.
// Treks are owned elsewhere; only the image scrub modifies them here.
type Trek struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Slug      string             `bson:"slug,omitempty" json:"slug,omitempty"`
	ImageURL  string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Images    []string           `bson:"images,omitempty" json:"images,omitempty"`
	IsEnabled bool               `bson:"isEnabled" json:"isEnabled"`
}

