package routes

import (
	"marketplace-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the identity gate. Login is wrapped in the
// per-IP limiter; validate and logout need a bearer token.
func RegisterAuthRoutes(rg *gin.RouterGroup, authHandler handlers.AuthHandlerInterface, authMiddleware, loginLimiter gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", loginLimiter, authHandler.Login)
		auth.GET("/validate", authMiddleware, authHandler.Validate)
		auth.POST("/logout", authMiddleware, authHandler.Logout)
	}
}

// RegisterUserRoutes registers profile and reputation routes.
func RegisterUserRoutes(rg *gin.RouterGroup, authHandler handlers.AuthHandlerInterface, authMiddleware gin.HandlerFunc) {
	users := rg.Group("/users")
	users.Use(authMiddleware)
	{
		users.PATCH("/me", authHandler.UpdateMe)
		users.GET("/:id/reputation", authHandler.GetReputation)
	}
}
