package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbiz/backend/internal/domain/identity"
)

// UserModel is the persistence model of identity.User
type UserModel struct {
	TenantAggregateModel
	Login        string     `gorm:"type:varchar(64);not null"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	DisplayName  string     `gorm:"type:varchar(200)"`
	ThirdPartyID *uuid.UUID `gorm:"type:uuid"`
	Language     string     `gorm:"type:varchar(16)"`
	Permissions  string     `gorm:"type:text"` // comma separated codes
	Active       bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	var perms []string
	if m.Permissions != "" {
		perms = strings.Split(m.Permissions, ",")
	}
	return &identity.User{
		TenantAggregateRoot: m.Root(),
		Login:               m.Login,
		PasswordHash:        m.PasswordHash,
		DisplayName:         m.DisplayName,
		ThirdPartyID:        m.ThirdPartyID,
		Language:            m.Language,
		Permissions:         perms,
		Active:              m.Active,
		LastLoginAt:         m.LastLoginAt,
	}
}

// UserModelFromDomain converts a domain user to its model
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Login:        u.Login,
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		ThirdPartyID: u.ThirdPartyID,
		Language:     u.Language,
		Permissions:  strings.Join(u.Permissions, ","),
		Active:       u.Active,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromRoot(u.TenantAggregateRoot)
	return m
}
