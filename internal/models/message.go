package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is a chat message exchanged over an accepted offer.
type Message struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	OfferID   uuid.UUID `bson:"offer_id" json:"offer_id"`
	SenderID  uuid.UUID `bson:"sender_id" json:"sender_id"`
	Text      string    `bson:"text" json:"text"`
	System    bool      `bson:"system" json:"system"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
