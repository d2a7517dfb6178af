package routes

import (
	"marketplace-api/internal/api/handlers"
	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterApplicationRoutes registers provider applications and their resolution.
func RegisterApplicationRoutes(rg *gin.RouterGroup, applicationHandler handlers.ApplicationHandlerInterface, authMiddleware gin.HandlerFunc) {
	requesterOnly := middleware.RequireRoles(models.RoleRequester)

	jobApps := rg.Group("/services/:id/applications")
	jobApps.Use(authMiddleware)
	{
		jobApps.POST("", applicationHandler.Apply)
		jobApps.GET("", requesterOnly, applicationHandler.ListJobApplications)
		jobApps.POST("/:applicationId/accept", requesterOnly, applicationHandler.AcceptApplication)
		jobApps.POST("/:applicationId/reject", requesterOnly, applicationHandler.RejectApplication)
	}

	rg.GET("/applications/mine", authMiddleware, middleware.RequireRoles(models.RoleProvider), applicationHandler.ListMyApplications)
}
