package identity

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openbiz/backend/internal/domain/shared"
)

const bcryptCost = 12

// User is an account able to sign in. A user linked to a third party
// (customer or supplier contact) is an external user.
type User struct {
	shared.TenantAggregateRoot
	Login        string
	PasswordHash string
	DisplayName  string
	ThirdPartyID *uuid.UUID
	Language     string
	Permissions  []string
	Active       bool
	LastLoginAt  *time.Time
}

// NewUser creates an active internal user
func NewUser(tenantID uuid.UUID, login, password string) (*User, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if len(login) < 3 || len(login) > 64 {
		return nil, shared.NewDomainError("INVALID_LOGIN", "Login must be between 3 and 64 characters")
	}
	if len(password) < 8 {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, nil),
		Login:               login,
		PasswordHash:        string(hash),
		Active:              true,
	}, nil
}

// IsExternal reports whether the user belongs to a third party
func (u *User) IsExternal() bool {
	return u.ThirdPartyID != nil && *u.ThirdPartyID != uuid.Nil
}

// LinkThirdParty turns the user into an external user
func (u *User) LinkThirdParty(thirdPartyID uuid.UUID) {
	u.ThirdPartyID = &thirdPartyID
	u.IncrementVersion()
}

// CheckPassword reports whether password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// GrantPermissions adds permissions, ignoring the ones already granted
func (u *User) GrantPermissions(perms ...string) {
	for _, p := range perms {
		if !slices.Contains(u.Permissions, p) {
			u.Permissions = append(u.Permissions, p)
		}
	}
	u.IncrementVersion()
}

// HasPermission reports whether the user holds perm, directly or through a module wildcard
func (u *User) HasPermission(perm string) bool {
	return HasPermission(u.Permissions, perm)
}

// RecordLogin stamps the last successful sign-in
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
}
