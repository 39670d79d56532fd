package models

import (
	"github.com/google/uuid"

	"github.com/openbiz/backend/internal/domain/dashboard"
)

// UserBoxModel stores one box position of a user dashboard zone
type UserBoxModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_boxes_slot,priority:1"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_boxes_slot,priority:2"`
	Zone     int       `gorm:"not null;uniqueIndex:idx_user_boxes_slot,priority:3"`
	BoxID    int64     `gorm:"not null;uniqueIndex:idx_user_boxes_slot,priority:4"`
	Position string    `gorm:"type:varchar(8);not null"`
}

// TableName returns the table name for GORM
func (UserBoxModel) TableName() string {
	return "user_boxes"
}

// ToDomain converts the model to a dashboard row
func (m *UserBoxModel) ToDomain() dashboard.UserBox {
	return dashboard.UserBox{
		TenantID: m.TenantID,
		UserID:   m.UserID,
		Zone:     m.Zone,
		BoxID:    m.BoxID,
		Position: m.Position,
	}
}

// UserBoxModelFromDomain converts a dashboard row to its model
func UserBoxModelFromDomain(b dashboard.UserBox) *UserBoxModel {
	return &UserBoxModel{
		TenantID: b.TenantID,
		UserID:   b.UserID,
		Zone:     b.Zone,
		BoxID:    b.BoxID,
		Position: b.Position,
	}
}
