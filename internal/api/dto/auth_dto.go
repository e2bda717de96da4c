package dto

import "time"

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
