package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/openbiz/backend/internal/domain/identity"
)

// LoginInput carries sign-in credentials
type LoginInput struct {
	TenantID uuid.UUID `json:"tenant_id" binding:"required"`
	Login    string    `json:"login" binding:"required,min=3,max=64"`
	Password string    `json:"password" binding:"required,min=8"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	Login        string     `json:"login"`
	DisplayName  string     `json:"display_name,omitempty"`
	ThirdPartyID *uuid.UUID `json:"third_party_id,omitempty"`
	Language     string     `json:"language,omitempty"`
	Permissions  []string   `json:"permissions"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// LoginResult is returned on a successful sign-in
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return UserResponse{
		ID:           u.ID,
		TenantID:     u.TenantID,
		Login:        u.Login,
		DisplayName:  u.DisplayName,
		ThirdPartyID: u.ThirdPartyID,
		Language:     u.Language,
		Permissions:  perms,
		LastLoginAt:  u.LastLoginAt,
	}
}
