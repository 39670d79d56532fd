package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbiz/backend/internal/domain/dashboard"
	"github.com/openbiz/backend/internal/infrastructure/persistence/models"
)

// GormBoxRepository implements dashboard.BoxRepository using GORM
type GormBoxRepository struct {
	db *gorm.DB
}

// NewGormBoxRepository creates a new GormBoxRepository
func NewGormBoxRepository(db *gorm.DB) *GormBoxRepository {
	return &GormBoxRepository{db: db}
}

// ReplaceLayout deletes the saved rows of the zone and inserts rows in one transaction
func (r *GormBoxRepository) ReplaceLayout(ctx context.Context, tenantID, userID uuid.UUID, zone int, rows []dashboard.UserBox) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND user_id = ? AND zone = ?", tenantID, userID, zone).
			Delete(&models.UserBoxModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		batch := make([]*models.UserBoxModel, len(rows))
		for i, row := range rows {
			batch[i] = models.UserBoxModelFromDomain(row)
		}
		return tx.Create(&batch).Error
	})
}

// FindLayout returns the saved rows of the zone ordered by column then rank
func (r *GormBoxRepository) FindLayout(ctx context.Context, tenantID, userID uuid.UUID, zone int) ([]dashboard.UserBox, error) {
	var rows []models.UserBoxModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ? AND zone = ?", tenantID, userID, zone).
		Order("substr(position, 1, 1), length(position), position").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]dashboard.UserBox, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}
