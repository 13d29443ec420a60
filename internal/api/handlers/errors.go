package handlers

import (
	"errors"
	"net/http"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/services"
)

// statusForError maps service validation errors onto HTTP status codes.
// Anything unmapped is treated as an internal failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrOfferNotFound),
		errors.Is(err, services.ErrNoAcceptedOffer):
		return http.StatusNotFound
	case errors.Is(err, services.ErrEmptyOffer),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrEmptyTitle),
		errors.Is(err, services.ErrSelfTrade),
		errors.Is(err, services.ErrWantedNotOwned):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrNotReceiver),
		errors.Is(err, services.ErrNotParticipant):
		return http.StatusForbidden
	case errors.Is(err, services.ErrDuplicateOffer),
		errors.Is(err, services.ErrNotPending),
		errors.Is(err, services.ErrNotAccepted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
