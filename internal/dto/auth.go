package dto

import "time"

// TokenRequest exchanges the configured service API key for a short-lived JWT.
type TokenRequest struct {
	APIKey   string `json:"apiKey" binding:"required"`
	ClientID string `json:"clientID" binding:"required"` // becomes the token subject, recorded in audit fields
}

// TokenResponse carries the issued bearer token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
