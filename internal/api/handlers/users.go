package handlers

import (
	"net/http"

	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// AuthHandler serves the identity gate and account endpoints.
type AuthHandler struct {
	service   services.UserService
	validator *validator.Validate
	log       logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserService, validate *validator.Validate, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{service: service, validator: validate, log: logger.WithField("module", "handlers.auth")}
}

// Register godoc
// @Summary      Register a new account
// @Description  Creates a store (requester) or assembler (provider) account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body      dto.RegisterRequest true  "Account details"
// @Success      201  {object}  dto.UserResponse "Account created"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      409  {object}  map[string]string "Conflict - Username taken"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	user, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, "Register", err)
		return
	}
	c.JSON(http.StatusCreated, MapUserModelToUserResponse(user))
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and returns a signed token. Unknown usernames and wrong passwords are indistinguishable.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body      dto.LoginRequest true  "Username and password"
// @Success      200  {object}  dto.LoginResponse "Token issued"
// @Failure      400  {object}  map[string]string "Invalid credentials"
// @Failure      429  {object}  map[string]string "Too many attempts"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	user, token, expiresAt, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, "Login", err)
		return
	}
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      MapUserModelToUserResponse(user),
	})
}

// Validate godoc
// @Summary      Validate the current token
// @Description  Returns the caller's profile when the bearer token is valid.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.UserResponse "Token is valid"
// @Failure      401  {object}  map[string]string "Invalid token"
// @Router       /auth/validate [get]
// @Security     BearerAuth
func (h *AuthHandler) Validate(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	user, err := h.service.Me(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.log, "Validate", err)
		return
	}
	c.JSON(http.StatusOK, MapUserModelToUserResponse(user))
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the presented token until it would have expired.
// @Tags         auth
// @Success      204
// @Failure      401  {object}  map[string]string "Invalid token"
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := middleware.GetTokenFromContext(c)
	if !ok {
		respondUnauthorized(c)
		return
	}
	if err := h.service.Logout(c.Request.Context(), token); err != nil {
		respondError(c, h.log, "Logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateMe godoc
// @Summary      Update the caller's profile
// @Description  Patches display name, email, phone and merges profileData keys (null removes a key).
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        profile body      dto.UpdateProfileRequest true  "Fields to change"
// @Success      200  {object}  dto.UserResponse "Profile updated"
// @Failure      400  {object}  map[string]string "Bad Request - Invalid input"
// @Failure      401  {object}  map[string]string "Unauthorized"
// @Router       /users/me [patch]
// @Security     BearerAuth
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !bindJSON(c, h.validator, &req) {
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), actor, &req)
	if err != nil {
		respondError(c, h.log, "UpdateMe", err)
		return
	}
	c.JSON(http.StatusOK, MapUserModelToUserResponse(user))
}

// GetReputation godoc
// @Summary      Get a user's reputation
// @Description  Averages over the latest ratings the user received.
// @Tags         users
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  models.Reputation
// @Failure      404  {object}  map[string]string "User Not Found"
// @Router       /users/{id}/reputation [get]
// @Security     BearerAuth
func (h *AuthHandler) GetReputation(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	rep, err := h.service.Reputation(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, "GetReputation", err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
