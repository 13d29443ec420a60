package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/gateway"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/models"
)

// NewItemInput carries the caller-supplied fields of a new catalog item.
type NewItemInput struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	Category    string           `json:"category" binding:"required"`
	Condition   string           `json:"condition"`
	ImageKey    string           `json:"image_key"`
	Location    *models.GeoPoint `json:"location"`
	IsDonation  bool             `json:"is_donation"`
}

// ICatalogService defines the interface for item CRUD.
type ICatalogService interface {
	CreateItem(ctx context.Context, ownerID uuid.UUID, input NewItemInput) (*models.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error)
	DeleteItem(ctx context.Context, callerID, itemID uuid.UUID) error
}

type catalogService struct {
	gw gateway.Gateway
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(gw gateway.Gateway) ICatalogService {
	return &catalogService{gw: gw}
}

func (s *catalogService) CreateItem(ctx context.Context, ownerID uuid.UUID, input NewItemInput) (*models.Item, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	item := &models.Item{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Condition:   input.Condition,
		ImageKey:    input.ImageKey,
		Location:    input.Location,
		IsDonation:  input.IsDonation,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.gw.InsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

func (s *catalogService) GetItem(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.gw.FetchItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load item %s: %w", id, err)
	}
	return item, nil
}

// DeleteItem soft-deletes one of the caller's items. Ownership is enforced by
// the delete filter itself, so a mismatch surfaces as not-found.
func (s *catalogService) DeleteItem(ctx context.Context, callerID, itemID uuid.UUID) error {
	if err := s.gw.DeleteItem(ctx, itemID, callerID); err != nil {
		return ErrItemNotFound
	}
	return nil
}
