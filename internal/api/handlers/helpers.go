package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"marketplace-api/internal/api/middleware"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FormatValidationErrors turns validator errors into a field -> message map.
func FormatValidationErrors(err error) map[string]string {
	errorsMap := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errorsMap["error"] = "Invalid validation error type"
		return errorsMap
	}
	for _, fieldError := range validationErrors {
		fieldName := fieldError.Field()
		errorsMap[fieldName] = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fieldName, fieldError.Tag())
		switch fieldError.Tag() {
		case "required":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' is required", fieldName)
		case "email":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be a valid email address", fieldName)
		case "min":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be at least %s", fieldName, fieldError.Param())
		case "max":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be at most %s", fieldName, fieldError.Param())
		case "oneof":
			errorsMap[fieldName] = fmt.Sprintf("Field '%s' must be one of: %s", fieldName, fieldError.Param())
		}
	}
	return errorsMap
}

// bindJSON decodes and validates the request body into req. It writes the
// 400 response itself and reports whether the handler may continue.
func bindJSON(c *gin.Context, v *validator.Validate, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return validate(c, v, req)
}

// bindOptionalJSON is bindJSON for endpoints whose body may be empty.
func bindOptionalJSON(c *gin.Context, v *validator.Validate, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return validate(c, v, req)
}

func bindQuery(c *gin.Context, v *validator.Validate, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		respondBadRequest(c, "Invalid query parameters: "+err.Error())
		return false
	}
	return validate(c, v, req)
}

func validate(c *gin.Context, v *validator.Validate, req any) bool {
	if err := v.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"kind":    services.ErrorKind(services.ErrValidation),
			"details": FormatValidationErrors(err),
		})
		return false
	}
	return true
}

// parseIDParam reads a positive integer path parameter.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, fmt.Sprintf("Invalid %s format", name))
		return 0, false
	}
	return id, true
}

// requireActor returns the authenticated caller or writes 401.
func requireActor(c *gin.Context) (models.Actor, bool) {
	actor, err := middleware.GetActorFromContext(c)
	if err != nil {
		respondUnauthorized(c)
		return models.Actor{}, false
	}
	return actor, true
}

// parseStatus converts an already validated status filter.
func parseStatus(s string) *models.JobStatus {
	if s == "" {
		return nil
	}
	status := models.JobStatus(s)
	return &status
}

// MapUserModelToUserResponse converts a models.User to a dto.UserResponse
func MapUserModelToUserResponse(user *models.User) dto.UserResponse {
	profile := user.ProfileData
	if profile == nil {
		profile = models.Document{}
	}
	return dto.UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		UserType:    user.UserType,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Phone:       user.Phone,
		ProfileData: profile,
		CreatedAt:   user.CreatedAt,
	}
}

func jobPage(jobs []models.Job, total, limit, offset int) dto.JobListResponse {
	return dto.JobListResponse{Items: nonNil(jobs), Total: total, Limit: limit, Offset: offset}
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
