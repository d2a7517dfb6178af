package routes

import (
	"marketplace-api/internal/api/handlers"
	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterPaymentRoutes registers the payment-proof workflow.
func RegisterPaymentRoutes(rg *gin.RouterGroup, paymentHandler handlers.PaymentHandlerInterface, authMiddleware gin.HandlerFunc) {
	payment := rg.Group("/services/:id/payment")
	payment.Use(authMiddleware)
	{
		payment.POST("/proof", middleware.RequireRoles(models.RoleRequester), paymentHandler.SubmitProof)
		payment.POST("/confirm", middleware.RequireRoles(models.RoleProvider), paymentHandler.ConfirmPayment)
		payment.POST("/reject", middleware.RequireRoles(models.RoleProvider), paymentHandler.RejectPayment)
	}
}
