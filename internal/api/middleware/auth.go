package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"marketplace-api/internal/models"
	"marketplace-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	authorizationHeader = "Authorization"
	actorCtx            = "actor" // verified caller
	tokenCtx            = "token" // raw bearer token, needed by logout
)

// Authenticator resolves a bearer token to the caller it was issued to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Actor, error)
}

// JWTAuthMiddleware rejects requests without a valid, unrevoked bearer token
// and stores the verified caller in the context.
func JWTAuthMiddleware(authn Authenticator, logger logrus.FieldLogger) gin.HandlerFunc {
	log := logger.WithField("module", "middleware.auth")
	return func(c *gin.Context) {
		authHeader := c.GetHeader(authorizationHeader)
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" || headerParts[1] == "" {
			abortUnauthorized(c, "Invalid Authorization header format")
			return
		}
		tokenString := headerParts[1]

		actor, err := authn.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				log.WithField("reason", err.Error()).Debug("token rejected")
				abortUnauthorized(c, err.Error())
				return
			}
			log.WithError(err).Error("authentication backend failure")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": services.KindInternal})
			return
		}

		c.Set(actorCtx, actor)
		c.Set(tokenCtx, tokenString)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "kind": services.ErrorKind(services.ErrInvalidToken)})
}

// GetActorFromContext returns the caller stored by JWTAuthMiddleware.
func GetActorFromContext(c *gin.Context) (models.Actor, error) {
	actorAny, exists := c.Get(actorCtx)
	if !exists {
		return models.Actor{}, errors.New("actor not found in context")
	}
	actor, ok := actorAny.(models.Actor)
	if !ok {
		return models.Actor{}, errors.New("actor in context is of invalid type")
	}
	return actor, nil
}

// GetTokenFromContext returns the bearer token the caller authenticated with.
func GetTokenFromContext(c *gin.Context) (string, bool) {
	token := c.GetString(tokenCtx)
	return token, token != ""
}
