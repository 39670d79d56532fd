package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists users
type UserRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByLogin(ctx context.Context, tenantID uuid.UUID, login string) (*User, error)
	Save(ctx context.Context, user *User) error
}
