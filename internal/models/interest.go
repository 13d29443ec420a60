package models

import (
	"time"

	"github.com/google/uuid"
)

// InterestMark records that a user wants an item, short of a formal offer.
// The (user_id, item_id) pair is unique; a compound index enforces it.
// Sending an offer on the item supersedes and removes the mark.
type InterestMark struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	UserID    uuid.UUID `bson:"user_id" json:"user_id"`
	ItemID    uuid.UUID `bson:"item_id" json:"item_id"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
