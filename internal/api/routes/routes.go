package routes

import (
	"context"
	"fmt"

	"marketplace-api/internal/api/handlers"
	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/api/openapi"
	"marketplace-api/internal/app"
	"marketplace-api/internal/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up the API routes by calling resource-specific registration functions
func RegisterRoutes(router *gin.Engine, app *app.Application) error {
	apiV1 := router.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(app.Users, app.Validator, app.Logger)
	jobHandler := handlers.NewJobHandler(app.Jobs, app.Validator, app.Logger)
	applicationHandler := handlers.NewApplicationHandler(app.Applications, app.Validator, app.Logger)
	paymentHandler := handlers.NewPaymentHandler(app.Payments, app.Validator, app.Logger)
	ratingHandler := handlers.NewRatingHandler(app.Ratings, app.Validator, app.Logger)
	messageHandler := handlers.NewMessageHandler(app.Messages, app.Validator, app.Logger)

	authMiddleware := middleware.JWTAuthMiddleware(app.Users, app.Logger)

	RegisterAuthRoutes(apiV1, authHandler, authMiddleware, app.LoginLimiter.Handler())
	RegisterUserRoutes(apiV1, authHandler, authMiddleware)
	RegisterJobRoutes(apiV1, jobHandler, authMiddleware)
	RegisterApplicationRoutes(apiV1, applicationHandler, authMiddleware)
	RegisterPaymentRoutes(apiV1, paymentHandler, authMiddleware)
	RegisterRatingRoutes(apiV1, ratingHandler, authMiddleware)
	RegisterMessageRoutes(apiV1, messageHandler, authMiddleware)

	router.GET("/health", handlers.HealthCheck(app.Store, app.Logger))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	doc, err := openapi.Load(context.Background())
	if err != nil {
		return err
	}
	docHandler, err := openapi.Handler(doc)
	if err != nil {
		return fmt.Errorf("openapi handler: %w", err)
	}
	router.GET("/openapi.json", docHandler)

	app.Logger.Debug("configuring swagger UI handler")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.json")))
	return nil
}
