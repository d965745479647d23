package dto

import "time"

// Auth Request DTOs

// RegisterRequest contains user registration data
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
}

// LoginRequest contains login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshTokenRequest contains refresh token for renewal
type RefreshTokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Auth Response DTOs

// TokenResponse contains authentication tokens
type TokenResponse struct {
	Access    string    `json:"access"`
	Refresh   string    `json:"refresh"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserProfileResponse represents the authenticated user's public profile.
// Username mirrors the email, which is the login handle.
type UserProfileResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	DateJoined time.Time `json:"date_joined"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	TokenResponse
	User UserProfileResponse `json:"user"`
}

// MessageResponse carries a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// ActivityQuery pages through the caller's audit trail
type ActivityQuery struct {
	Limit  int `query:"limit" validate:"gte=0,lte=100"`
	Offset int `query:"offset" validate:"gte=0"`
}

// ActivityEntryResponse is one audit trail entry
type ActivityEntryResponse struct {
	ID        string                 `json:"id"`
	Action    string                 `json:"action"`
	Resource  string                 `json:"resource"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
