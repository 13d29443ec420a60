package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/api/middleware"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/services"
)

// RestTradeHandler handles REST requests for offers, trades and interest
// marks.
type RestTradeHandler struct {
	tradeService services.ITradeService
}

// NewRestTradeHandler creates a new RestTradeHandler.
func NewRestTradeHandler(tradeService services.ITradeService) *RestTradeHandler {
	return &RestTradeHandler{tradeService: tradeService}
}

type createOfferRequest struct {
	OfferedItemIDs []uuid.UUID `json:"offered_item_ids" binding:"required"`
	WantedItemIDs  []uuid.UUID `json:"wanted_item_ids" binding:"required"`
}

// CreateOffer handles POST /v1/offer
func (h *RestTradeHandler) CreateOffer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	var req createOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	offer, err := h.tradeService.CreateOffer(c.Request.Context(), userID, req.OfferedItemIDs, req.WantedItemIDs)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, offer)
}

type respondRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// RespondToOffer handles POST /v1/offer/:id/respond
func (h *RestTradeHandler) RespondToOffer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID format"})
		return
	}
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	offer, err := h.tradeService.RespondToOffer(c.Request.Context(), userID, offerID, *req.Accept)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, offer)
}

type counterOfferRequest struct {
	WantedItemID uuid.UUID `json:"wanted_item_id" binding:"required"`
}

// CounterOffer handles POST /v1/offer/:id/counter
func (h *RestTradeHandler) CounterOffer(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	offerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid offer ID format"})
		return
	}
	var req counterOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	counter, err := h.tradeService.SendCounterOffer(c.Request.Context(), userID, offerID, req.WantedItemID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, counter)
}

type completeTradeRequest struct {
	PartnerID uuid.UUID `json:"partner_id" binding:"required"`
}

// CompleteTrade handles POST /v1/trade/complete
func (h *RestTradeHandler) CompleteTrade(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	var req completeTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	offer, err := h.tradeService.CompleteTrade(c.Request.Context(), userID, req.PartnerID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, offer)
}

// GetTrades handles GET /v1/trades
func (h *RestTradeHandler) GetTrades(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	h.tradeService.LoadTradesData(c.Request.Context(), userID)
	c.JSON(http.StatusOK, h.tradeService.TradesView(userID))
}

// GetInterests handles GET /v1/interests
func (h *RestTradeHandler) GetInterests(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": h.tradeService.Interests(userID)})
}

// MarkInterested handles POST /v1/interest/:item_id
func (h *RestTradeHandler) MarkInterested(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID format"})
		return
	}
	if err := h.tradeService.MarkInterested(c.Request.Context(), userID, itemID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveInterest handles DELETE /v1/interest/:item_id
func (h *RestTradeHandler) RemoveInterest(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	itemID, err := uuid.Parse(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID format"})
		return
	}
	if err := h.tradeService.RemoveInterest(c.Request.Context(), userID, itemID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
