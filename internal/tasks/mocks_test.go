package tasks_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/models"
)

// --- Mocks ---

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) FetchItemsPage(ctx context.Context, page, pageSize int) ([]models.Item, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockGateway) FetchItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockGateway) FetchItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockGateway) InsertItem(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockGateway) DeleteItem(ctx context.Context, itemID, ownerID uuid.UUID) error {
	args := m.Called(ctx, itemID, ownerID)
	return args.Error(0)
}

func (m *MockGateway) FetchProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Profile), args.Error(1)
}

func (m *MockGateway) FetchProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockGateway) FetchRating(ctx context.Context, userID uuid.UUID) (float64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockGateway) IncrementTradeCount(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockGateway) FetchInterestMarks(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *MockGateway) SaveInterestMark(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockGateway) DeleteInterestMark(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockGateway) FetchIncomingOffers(ctx context.Context, userID uuid.UUID) ([]models.Offer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}

func (m *MockGateway) FetchActiveOffers(ctx context.Context, userID uuid.UUID) ([]models.Offer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}

func (m *MockGateway) FetchOfferByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockGateway) FetchOfferForPair(ctx context.Context, offeredItemID, wantedItemID uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, offeredItemID, wantedItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockGateway) CreateOffer(ctx context.Context, offer *models.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockGateway) UpdateOfferStatus(ctx context.Context, offerID uuid.UUID, status models.OfferStatus) error {
	args := m.Called(ctx, offerID, status)
	return args.Error(0)
}

func (m *MockGateway) ExpireStaleOffers(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGateway) SaveMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockGateway) FetchMessages(ctx context.Context, offerID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// MockSweepScheduler is a mock for the SweepScheduler interface.
type MockSweepScheduler struct {
	mock.Mock
}

func (m *MockSweepScheduler) EnqueueOfferSweep(ctx context.Context, delay time.Duration) error {
	args := m.Called(ctx, delay)
	return args.Error(0)
}
