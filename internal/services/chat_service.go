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

// IChatService defines the interface for per-offer conversations.
type IChatService interface {
	SendMessage(ctx context.Context, senderID, offerID uuid.UUID, text string) (*models.Message, error)
	ListMessages(ctx context.Context, callerID, offerID uuid.UUID) ([]models.Message, error)
}

type chatService struct {
	gw gateway.Gateway
}

// NewChatService creates a new ChatService.
func NewChatService(gw gateway.Gateway) IChatService {
	return &chatService{gw: gw}
}

// SendMessage appends a message to the conversation of an accepted offer.
// Only the two parties of the offer may write to it.
func (s *chatService) SendMessage(ctx context.Context, senderID, offerID uuid.UUID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	offer, err := s.loadParticipantOffer(ctx, senderID, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Status != models.OfferAccepted && offer.Status != models.OfferCompleted {
		return nil, ErrNotAccepted
	}

	msg := &models.Message{
		ID:        uuid.New(),
		OfferID:   offerID,
		SenderID:  senderID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.gw.SaveMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save message: %w", err)
	}
	return msg, nil
}

// ListMessages returns the offer's conversation, oldest first.
func (s *chatService) ListMessages(ctx context.Context, callerID, offerID uuid.UUID) ([]models.Message, error) {
	if _, err := s.loadParticipantOffer(ctx, callerID, offerID); err != nil {
		return nil, err
	}
	msgs, err := s.gw.FetchMessages(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages for offer %s: %w", offerID, err)
	}
	return msgs, nil
}

func (s *chatService) loadParticipantOffer(ctx context.Context, callerID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.gw.FetchOfferByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to load offer %s: %w", offerID, err)
	}
	if offer.SenderID != callerID && offer.ReceiverID != callerID {
		return nil, ErrNotParticipant
	}
	return offer, nil
}
