package routes

import (
	"marketplace-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRatingRoutes registers the rating gate.
func RegisterRatingRoutes(rg *gin.RouterGroup, ratingHandler handlers.RatingHandlerInterface, authMiddleware gin.HandlerFunc) {
	ratings := rg.Group("/services/:id/ratings")
	ratings.Use(authMiddleware)
	{
		ratings.POST("", ratingHandler.SubmitRating)
		ratings.GET("", ratingHandler.ListRatings)
	}
}

// RegisterMessageRoutes registers the per-job message thread.
func RegisterMessageRoutes(rg *gin.RouterGroup, messageHandler handlers.MessageHandlerInterface, authMiddleware gin.HandlerFunc) {
	messages := rg.Group("/services/:id/messages")
	messages.Use(authMiddleware)
	{
		messages.GET("", messageHandler.ListMessages)
		messages.POST("", messageHandler.SendMessage)
		messages.POST("/read", messageHandler.MarkRead)
	}
}
