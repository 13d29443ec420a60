package handlers_test

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/api/middleware"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/models"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/services"
)

// authAs injects an authenticated user the way AuthMiddleware would.
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Next()
	}
}

// --- Mocks ---

// MockFeedService
type MockFeedService struct {
	mock.Mock
}

func (m *MockFeedService) Refresh(ctx context.Context, viewerID uuid.UUID) {
	m.Called(ctx, viewerID)
}

func (m *MockFeedService) RequestMore(ctx context.Context, viewerID uuid.UUID) {
	m.Called(ctx, viewerID)
}

func (m *MockFeedService) Dismiss(ctx context.Context, viewerID, itemID uuid.UUID) {
	m.Called(ctx, viewerID, itemID)
}

func (m *MockFeedService) Window(viewerID uuid.UUID) []models.Item {
	args := m.Called(viewerID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Item)
}

func (m *MockFeedService) CanLoadMore(viewerID uuid.UUID) bool {
	args := m.Called(viewerID)
	return args.Bool(0)
}

// MockTradeService
type MockTradeService struct {
	mock.Mock
}

func (m *MockTradeService) CreateOffer(ctx context.Context, senderID uuid.UUID, offeredItemIDs, wantedItemIDs []uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, senderID, offeredItemIDs, wantedItemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockTradeService) RespondToOffer(ctx context.Context, callerID, offerID uuid.UUID, accept bool) (*models.Offer, error) {
	args := m.Called(ctx, callerID, offerID, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockTradeService) SendCounterOffer(ctx context.Context, callerID, originalOfferID, newWantedItemID uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, callerID, originalOfferID, newWantedItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockTradeService) CompleteTrade(ctx context.Context, callerID, partnerID uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, callerID, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockTradeService) MarkInterested(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockTradeService) RemoveInterest(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

func (m *MockTradeService) LoadTradesData(ctx context.Context, userID uuid.UUID) {
	m.Called(ctx, userID)
}

func (m *MockTradeService) ReloadCached(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockTradeService) TradesView(userID uuid.UUID) services.TradesView {
	args := m.Called(userID)
	return args.Get(0).(services.TradesView)
}

func (m *MockTradeService) Interests(userID uuid.UUID) []models.Item {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Item)
}

// MockChatService
type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) SendMessage(ctx context.Context, senderID, offerID uuid.UUID, text string) (*models.Message, error) {
	args := m.Called(ctx, senderID, offerID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Message), args.Error(1)
}

func (m *MockChatService) ListMessages(ctx context.Context, callerID, offerID uuid.UUID) ([]models.Message, error) {
	args := m.Called(ctx, callerID, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

// MockCatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateItem(ctx context.Context, ownerID uuid.UUID, input services.NewItemInput) (*models.Item, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockCatalogService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockCatalogService) DeleteItem(ctx context.Context, callerID, itemID uuid.UUID) error {
	args := m.Called(ctx, callerID, itemID)
	return args.Error(0)
}
