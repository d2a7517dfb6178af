package dto

import (
	"time"

	"marketplace-api/internal/models"
)

// RegisterRequest defines the structure for creating a new account.
type RegisterRequest struct {
	Username    string          `json:"username" validate:"required,min=3,max=50"`
	Password    string          `json:"password" validate:"required,min=8,max=72"`
	UserType    models.Role     `json:"userType" validate:"required,oneof=store assembler"`
	DisplayName string          `json:"displayName" validate:"omitempty,max=100"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Phone       string          `json:"phone" validate:"omitempty,max=30"`
	ProfileData models.Document `json:"profileData"`
}

// LoginRequest defines the structure for a login attempt.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UpdateProfileRequest patches the caller's profile. profileData keys are
// merged; a null value removes the key.
type UpdateProfileRequest struct {
	DisplayName *string         `json:"displayName" validate:"omitempty,max=100"`
	Email       *string         `json:"email" validate:"omitempty,email"`
	Phone       *string         `json:"phone" validate:"omitempty,max=30"`
	ProfileData models.Document `json:"profileData"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID          int64           `json:"id"`
	Username    string          `json:"username"`
	UserType    models.Role     `json:"userType"`
	DisplayName string          `json:"displayName"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	ProfileData models.Document `json:"profileData"`
	CreatedAt   time.Time       `json:"createdAt"`
}
