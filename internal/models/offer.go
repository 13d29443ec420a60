package models

import (
	"time"

	"github.com/google/uuid"
)

// OfferStatus is the lifecycle state of a trade offer. All transitions are
// one-way: pending -> accepted|rejected|countered, accepted -> completed.
// A counter never reopens the original offer; it creates a new pending one.
type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferAccepted  OfferStatus = "accepted"
	OfferRejected  OfferStatus = "rejected"
	OfferCountered OfferStatus = "countered"
	OfferCompleted OfferStatus = "completed"
)

// Active reports whether the status still holds the primary item pair
// (pending or accepted). Used by the advisory duplicate-offer check.
func (s OfferStatus) Active() bool {
	return s == OfferPending || s == OfferAccepted
}

// Offer represents a proposed exchange of one or more items between two users.
// Item references are stored as IDs only; Hydrate* fields are resolved before
// display in one batched lookup.
type Offer struct {
	ID            uuid.UUID   `bson:"_id" json:"id"`
	SenderID      uuid.UUID   `bson:"sender_id" json:"sender_id"`
	ReceiverID    uuid.UUID   `bson:"receiver_id" json:"receiver_id"`
	OfferedItemID uuid.UUID   `bson:"offered_item_id" json:"offered_item_id"`
	WantedItemID  uuid.UUID   `bson:"wanted_item_id" json:"wanted_item_id"`
	ExtraOffered  []uuid.UUID `bson:"extra_offered,omitempty" json:"extra_offered,omitempty"`
	ExtraWanted   []uuid.UUID `bson:"extra_wanted,omitempty" json:"extra_wanted,omitempty"`
	Status        OfferStatus `bson:"status" json:"status"`
	CreatedAt     time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `bson:"updated_at" json:"updated_at"`

	// Hydrated item records, never persisted.
	OfferedItem      *Item  `bson:"-" json:"offered_item,omitempty"`
	WantedItem       *Item  `bson:"-" json:"wanted_item,omitempty"`
	ExtraOfferedItem []Item `bson:"-" json:"extra_offered_items,omitempty"`
	ExtraWantedItem  []Item `bson:"-" json:"extra_wanted_items,omitempty"`
}

// ItemIDs returns every item ID the offer references, primary first.
func (o *Offer) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, 2+len(o.ExtraOffered)+len(o.ExtraWanted))
	ids = append(ids, o.OfferedItemID, o.WantedItemID)
	ids = append(ids, o.ExtraOffered...)
	ids = append(ids, o.ExtraWanted...)
	return ids
}

// Counterparty returns the other party of the offer relative to userID.
func (o *Offer) Counterparty(userID uuid.UUID) uuid.UUID {
	if o.SenderID == userID {
		return o.ReceiverID
	}
	return o.SenderID
}
