package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/api/handlers"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/api/middleware"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/config"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/services"
)

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(
	cfg *config.Config,
	feedService services.IFeedService,
	tradeService services.ITradeService,
	chatService services.IChatService,
	catalogService services.ICatalogService,
) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	feedHandler := handlers.NewRestFeedHandler(feedService)
	tradeHandler := handlers.NewRestTradeHandler(tradeService)
	chatHandler := handlers.NewRestChatHandler(chatService)
	itemHandler := handlers.NewRestItemHandler(catalogService)

	v1 := r.Group("/v1")
	{
		// Public routes
		v1.GET("/item/:id", itemHandler.GetItem)
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Authenticated routes
		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.GET("/feed", feedHandler.GetFeed)
			authRequired.POST("/feed/refresh", feedHandler.RefreshFeed)
			authRequired.POST("/feed/more", feedHandler.LoadMore)
			authRequired.DELETE("/feed/:item_id", feedHandler.DismissItem)

			authRequired.POST("/item", itemHandler.CreateItem)
			authRequired.DELETE("/item/:id", itemHandler.DeleteItem)

			authRequired.POST("/offer", tradeHandler.CreateOffer)
			authRequired.POST("/offer/:id/respond", tradeHandler.RespondToOffer)
			authRequired.POST("/offer/:id/counter", tradeHandler.CounterOffer)
			authRequired.POST("/trade/complete", tradeHandler.CompleteTrade)
			authRequired.GET("/trades", tradeHandler.GetTrades)

			authRequired.GET("/interests", tradeHandler.GetInterests)
			authRequired.POST("/interest/:item_id", tradeHandler.MarkInterested)
			authRequired.DELETE("/interest/:item_id", tradeHandler.RemoveInterest)

			authRequired.POST("/offer/:id/message", chatHandler.SendMessage)
			authRequired.GET("/offer/:id/messages", chatHandler.ListMessages)
		}
	}

	return r
}
