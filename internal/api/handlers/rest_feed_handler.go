package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/api/middleware"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/services"
)

// RestFeedHandler handles REST requests for the browse feed.
type RestFeedHandler struct {
	feedService services.IFeedService
}

// NewRestFeedHandler creates a new RestFeedHandler.
func NewRestFeedHandler(feedService services.IFeedService) *RestFeedHandler {
	return &RestFeedHandler{feedService: feedService}
}

// GetFeed handles GET /v1/feed
func (h *RestFeedHandler) GetFeed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":          h.feedService.Window(userID),
		"can_load_more": h.feedService.CanLoadMore(userID),
	})
}

// RefreshFeed handles POST /v1/feed/refresh
func (h *RestFeedHandler) RefreshFeed(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	h.feedService.Refresh(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"data":          h.feedService.Window(userID),
		"can_load_more": h.feedService.CanLoadMore(userID),
	})
}

// LoadMore handles POST /v1/feed/more
func (h *RestFeedHandler) LoadMore(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	h.feedService.RequestMore(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{
		"data":          h.feedService.Window(userID),
		"can_load_more": h.feedService.CanLoadMore(userID),
	})
}

// DismissItem handles DELETE /v1/feed/:item_id
func (h *RestFeedHandler) DismissItem(c *gin.Context) {
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
	h.feedService.Dismiss(c.Request.Context(), userID, itemID)
	c.JSON(http.StatusOK, gin.H{
		"data":          h.feedService.Window(userID),
		"can_load_more": h.feedService.CanLoadMore(userID),
	})
}
