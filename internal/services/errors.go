package services

import "errors"

// Validation failures surfaced to callers as results, never as panics. The
// HTTP layer maps them onto 4xx statuses.
var (
	ErrItemNotFound    = errors.New("item not found")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrEmptyOffer      = errors.New("offer must reference at least one offered and one wanted item")
	ErrNotOwner        = errors.New("sender does not own all offered items")
	ErrWantedNotOwned  = errors.New("wanted items do not share a single owner")
	ErrSelfTrade       = errors.New("cannot trade with yourself")
	ErrDuplicateOffer  = errors.New("an active offer already exists for this item pair")
	ErrNotReceiver     = errors.New("only the offer's receiver may do this")
	ErrNotPending      = errors.New("offer is no longer pending")
	ErrNoAcceptedOffer = errors.New("no accepted trade with this partner")
	ErrNotParticipant  = errors.New("user is not a participant of this offer")
	ErrNotAccepted     = errors.New("offer is not accepted")
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrEmptyTitle      = errors.New("item title is empty")
)
