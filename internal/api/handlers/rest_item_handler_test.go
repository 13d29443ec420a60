package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/api/handlers"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/models"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/services"
)

func TestRestItemHandler_CreateItem_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockCatalogSvc := new(MockCatalogService)
	handler := handlers.NewRestItemHandler(mockCatalogSvc)

	userID := uuid.New()
	r := gin.New()
	r.POST("/v1/item", authAs(userID), handler.CreateItem)

	created := &models.Item{ID: uuid.New(), OwnerID: userID, Title: "Kettle", Category: "kitchen"}
	mockCatalogSvc.On("CreateItem", mock.Anything, userID, mock.AnythingOfType("services.NewItemInput")).Return(created, nil)

	body, _ := json.Marshal(services.NewItemInput{Title: "Kettle", Category: "kitchen"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/item", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var respBody models.Item
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &respBody))
	assert.Equal(t, created.ID, respBody.ID)
	mockCatalogSvc.AssertExpectations(t)
}

func TestRestItemHandler_GetItem_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockCatalogSvc := new(MockCatalogService)
	handler := handlers.NewRestItemHandler(mockCatalogSvc)

	r := gin.New()
	r.GET("/v1/item/:id", handler.GetItem)

	itemID := uuid.New()
	mockCatalogSvc.On("GetItem", mock.Anything, itemID).Return(nil, services.ErrItemNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/item/"+itemID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRestItemHandler_DeleteItem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockCatalogSvc := new(MockCatalogService)
	handler := handlers.NewRestItemHandler(mockCatalogSvc)

	userID := uuid.New()
	itemID := uuid.New()
	r := gin.New()
	r.DELETE("/v1/item/:id", authAs(userID), handler.DeleteItem)

	mockCatalogSvc.On("DeleteItem", mock.Anything, userID, itemID).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/v1/item/"+itemID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockCatalogSvc.AssertExpectations(t)
}
