package dto

import "time"

type UnlockRequest struct {
	AccessCode string `json:"access_code" validate:"required"`
}

type UnlockResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
