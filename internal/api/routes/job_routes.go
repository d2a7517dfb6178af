package routes

import (
	"marketplace-api/internal/api/handlers"
	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterJobRoutes registers the service record routes. Role-only routes are
// gated before the handler runs; ownership checks stay in the services.
func RegisterJobRoutes(rg *gin.RouterGroup, jobHandler handlers.JobHandlerInterface, authMiddleware gin.HandlerFunc) {
	jobs := rg.Group("/services")
	jobs.Use(authMiddleware)
	{
		jobs.GET("", jobHandler.ListJobs)
		jobs.POST("", middleware.RequireRoles(models.RoleRequester), jobHandler.CreateJob)
		jobs.GET("/available", middleware.RequireRoles(models.RoleProvider), jobHandler.ListAvailableJobs)
		jobs.GET("/mine", jobHandler.ListMyJobs)
		jobs.GET("/pending-evaluations", jobHandler.PendingEvaluations)
		jobs.GET("/:id", jobHandler.GetJobByID)
		jobs.PATCH("/:id", middleware.RequireRoles(models.RoleRequester), jobHandler.UpdateJob)
		jobs.POST("/:id/complete", jobHandler.CompleteJob)
		jobs.POST("/:id/cancel", middleware.RequireRoles(models.RoleRequester), jobHandler.CancelJob)
	}
}
