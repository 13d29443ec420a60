package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/api/middleware"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/services"
)

// RestItemHandler handles REST requests for catalog items.
type RestItemHandler struct {
	catalogService services.ICatalogService
}

// NewRestItemHandler creates a new RestItemHandler.
func NewRestItemHandler(catalogService services.ICatalogService) *RestItemHandler {
	return &RestItemHandler{catalogService: catalogService}
}

// CreateItem handles POST /v1/item
func (h *RestItemHandler) CreateItem(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	var input services.NewItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), userID, input)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItem handles GET /v1/item/:id
func (h *RestItemHandler) GetItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID format"})
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /v1/item/:id
func (h *RestItemHandler) DeleteItem(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID format"})
		return
	}

	if err := h.catalogService.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
