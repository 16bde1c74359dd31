package api

import "time"

// AuthResponse 註冊與登入成功時回傳
// swagger:model api.AuthResponse
type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token" example:"eyJhbGciOi..."`
	TokenType   string       `json:"token_type" example:"Bearer"`
	ExpiresAt   time.Time    `json:"expires_at" example:"2025-05-09T15:04:05Z"`
}
