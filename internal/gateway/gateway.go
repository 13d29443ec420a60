package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/models"
)

// Gateway is the row-level data access capability the core consumes.
// Any backing store exposing these operations suffices; the production
// implementation lives in this package (MongoDB), tests use a mock.
type Gateway interface {
	// Items
	FetchItemsPage(ctx context.Context, page, pageSize int) ([]models.Item, error)
	FetchItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error)
	FetchItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	InsertItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, itemID, ownerID uuid.UUID) error

	// Profiles
	FetchProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error)
	FetchProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	FetchRating(ctx context.Context, userID uuid.UUID) (float64, error)
	IncrementTradeCount(ctx context.Context, userID uuid.UUID) error

	// Interest marks. FetchInterestMarks returns the marked items themselves,
	// resolved store-side, so callers get display-ready records in one call.
	FetchInterestMarks(ctx context.Context, userID uuid.UUID) ([]models.Item, error)
	SaveInterestMark(ctx context.Context, userID, itemID uuid.UUID) error
	DeleteInterestMark(ctx context.Context, userID, itemID uuid.UUID) error

	// Offers
	FetchIncomingOffers(ctx context.Context, userID uuid.UUID) ([]models.Offer, error)
	FetchActiveOffers(ctx context.Context, userID uuid.UUID) ([]models.Offer, error)
	FetchOfferByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	FetchOfferForPair(ctx context.Context, offeredItemID, wantedItemID uuid.UUID) (*models.Offer, error)
	CreateOffer(ctx context.Context, offer *models.Offer) error
	UpdateOfferStatus(ctx context.Context, offerID uuid.UUID, status models.OfferStatus) error
	ExpireStaleOffers(ctx context.Context, olderThan time.Time) (int64, error)

	// Messages
	SaveMessage(ctx context.Context, msg *models.Message) error
	FetchMessages(ctx context.Context, offerID uuid.UUID) ([]models.Message, error)
}

// ChangeEvent is a change signal for a watched table. The backing store
// delivers no diff payload, only the fact that something in the table changed.
type ChangeEvent struct {
	Table string
}

// Notifier is a push-based stream of change events for a given table.
// The returned channel closes when the underlying stream dies; callers
// resubscribe.
type Notifier interface {
	Subscribe(ctx context.Context, table string) (<-chan ChangeEvent, error)
}
