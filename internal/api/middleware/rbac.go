package middleware

import (
	"net/http"

	"marketplace-api/internal/models"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
)

// RequireRoles ensures the authenticated caller has one of the allowed roles.
// It must run after JWTAuthMiddleware.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := GetActorFromContext(c)
		if err != nil {
			abortUnauthorized(c, "Unauthorized")
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "access denied for role " + string(actor.Role),
			"kind":  services.ErrorKind(services.ErrForbidden),
		})
	}
}
