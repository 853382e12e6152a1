package dto

import (
	"time"

	"health-concierge/internal/domain/entity"
)

type SelectRoleRequest struct {
	Role entity.UserRole `json:"role" validate:"required,oneof=assistant patient"`
}

type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
