package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbiz/backend/internal/domain/procurement"
	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/infrastructure/persistence/models"
)

// SupplierProposalSortFields contains allowed sort fields for supplier proposals
var SupplierProposalSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"ref":           true,
	"status":        true,
	"total_ttc":     true,
	"delivery_date": true,
}

// GormSupplierProposalRepository implements procurement.SupplierProposalRepository using GORM
type GormSupplierProposalRepository struct {
	db *gorm.DB
}

// NewGormSupplierProposalRepository creates a new GormSupplierProposalRepository
func NewGormSupplierProposalRepository(db *gorm.DB) *GormSupplierProposalRepository {
	return &GormSupplierProposalRepository{db: db}
}

func (r *GormSupplierProposalRepository) withLines(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("rank ASC")
	})
}

// FindByID finds a proposal with its lines
func (r *GormSupplierProposalRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*procurement.SupplierProposal, error) {
	var model models.SupplierProposalModel
	if err := r.withLines(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRef finds a proposal by its reference, provisional or definitive
func (r *GormSupplierProposalRepository) FindByRef(ctx context.Context, tenantID uuid.UUID, ref string) (*procurement.SupplierProposal, error) {
	var model models.SupplierProposalModel
	if err := r.withLines(ctx).
		Where("tenant_id = ? AND ref = ?", tenantID, ref).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists proposals matching the filter and returns the total count
func (r *GormSupplierProposalRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter procurement.ProposalFilter) ([]procurement.SupplierProposal, int64, error) {
	filter.Filter = filter.Filter.Normalize()

	query := r.db.WithContext(ctx).Model(&models.SupplierProposalModel{}).Where("tenant_id = ?", tenantID)
	if filter.Status != nil {
		query = query.Where("status = ?", int(*filter.Status))
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where("(LOWER(ref) LIKE ? OR LOWER(ref_supplier) LIKE ?)", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.OrderBy, SupplierProposalSortFields, "created_at")
	var rows []models.SupplierProposalModel
	if err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]procurement.SupplierProposal, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save inserts a new proposal or updates an existing one, replacing its lines.
// An update is rejected with shared.ErrConflict when the stored version is not
// older than the proposal's version.
func (r *GormSupplierProposalRepository) Save(ctx context.Context, proposal *procurement.SupplierProposal) error {
	model := models.SupplierProposalModelFromDomain(proposal)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.SupplierProposalModel{}).
			Where("tenant_id = ? AND id = ?", proposal.TenantID, proposal.ID).
			Count(&existing).Error; err != nil {
			return err
		}

		if existing == 0 {
			if err := tx.Omit("Lines").Create(model).Error; err != nil {
				return translateWriteError(err)
			}
		} else {
			result := tx.Model(&models.SupplierProposalModel{}).
				Where("tenant_id = ? AND id = ? AND version < ?", proposal.TenantID, proposal.ID, proposal.Version).
				Select("*").Omit("id", "tenant_id", "created_by", "created_at", "Lines").
				Updates(model)
			if result.Error != nil {
				return translateWriteError(result.Error)
			}
			if result.RowsAffected == 0 {
				return shared.ErrConflict
			}
			if err := tx.Where("proposal_id = ?", proposal.ID).
				Delete(&models.SupplierProposalLineModel{}).Error; err != nil {
				return err
			}
		}

		if len(model.Lines) > 0 {
			if err := tx.Create(&model.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a proposal and its lines
func (r *GormSupplierProposalRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.SupplierProposalModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("proposal_id = ?", id).Delete(&models.SupplierProposalLineModel{}).Error
	})
}

// DefinitiveRefs returns every validated reference of the tenant
func (r *GormSupplierProposalRepository) DefinitiveRefs(ctx context.Context, tenantID uuid.UUID) ([]string, error) {
	var refs []string
	err := r.db.WithContext(ctx).Model(&models.SupplierProposalModel{}).
		Where("tenant_id = ? AND ref LIKE ?", tenantID, procurement.RefPrefix+"%").
		Pluck("ref", &refs).Error
	return refs, err
}

// translateWriteError maps unique violations to shared.ErrAlreadyExists
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return shared.ErrAlreadyExists
	}
	return err
}
