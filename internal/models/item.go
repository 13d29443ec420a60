package models

import (
	"time"

	"github.com/google/uuid"
)

// GeoPoint is a WGS84 coordinate.
type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Item represents a tradeable listing owned by one user.
type Item struct {
	ID          uuid.UUID  `bson:"_id" json:"id"`
	OwnerID     uuid.UUID  `bson:"owner_id" json:"owner_id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Category    string     `bson:"category" json:"category"`
	Condition   string     `bson:"condition" json:"condition"`
	ImageKey    string     `bson:"image_key" json:"image_key"`
	Location    *GeoPoint  `bson:"location,omitempty" json:"location,omitempty"`
	IsDonation  bool       `bson:"is_donation" json:"is_donation"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	Deleted     bool       `bson:"deleted" json:"-"` // Soft delete flag
	DeletedAt   *time.Time `bson:"deleted_at,omitempty" json:"-"`

	// Per-viewer fields computed at hydration time; never persisted.
	DistanceKm float64  `bson:"-" json:"distance_km"`
	Owner      *Profile `bson:"-" json:"owner,omitempty"`
}
