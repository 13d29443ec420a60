package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a user profile.
type Profile struct {
	ID           uuid.UUID   `bson:"_id" json:"id"`
	Username     string      `bson:"username" json:"username"`
	AvatarKey    string      `bson:"avatar_key" json:"avatar_key,omitempty"`
	Verified     bool        `bson:"verified" json:"verified"`
	Premium      bool        `bson:"premium" json:"premium"`
	TradeCount   int         `bson:"trade_count" json:"trade_count"`
	Rating       float64     `bson:"rating" json:"rating"`
	Blocked      []uuid.UUID `bson:"blocked,omitempty" json:"-"`
	InterestedIn []string    `bson:"interested_in,omitempty" json:"interested_in,omitempty"`
	LastLocation *GeoPoint   `bson:"last_location,omitempty" json:"-"`
	CreatedAt    time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at" json:"-"`
}

// HasBlocked reports whether the profile's owner has blocked the given user.
func (p *Profile) HasBlocked(userID uuid.UUID) bool {
	for _, id := range p.Blocked {
		if id == userID {
			return true
		}
	}
	return false
}

// InterestedInCategory reports whether the category is on the profile's
// interested-in list.
func (p *Profile) InterestedInCategory(category string) bool {
	for _, c := range p.InterestedIn {
		if c == category {
			return true
		}
	}
	return false
}

// PlaceholderProfile returns a deterministic stand-in used when the profile
// batch fetch fails. Owner context on feed items is best-effort.
func PlaceholderProfile(id uuid.UUID) *Profile {
	return &Profile{ID: id, Username: "member"}
}
