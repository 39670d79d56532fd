package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbiz/backend/internal/domain/shared"
)

// TenantAggregateModel holds the columns shared by tenant-scoped aggregates
type TenantAggregateModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	Version   int        `gorm:"not null;default:1"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

// FromRoot copies the aggregate root columns
func (m *TenantAggregateModel) FromRoot(r shared.TenantAggregateRoot) {
	m.ID = r.ID
	m.TenantID = r.TenantID
	m.CreatedBy = r.CreatedBy
	m.Version = r.Version
	m.CreatedAt = r.CreatedAt
	m.UpdatedAt = r.UpdatedAt
}

// Root rebuilds the aggregate root. Pending events are not persisted.
func (m *TenantAggregateModel) Root() shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
			Version:    m.Version,
		},
		TenantID:  m.TenantID,
		CreatedBy: m.CreatedBy,
	}
}

// All lists every model, in dependency order, for schema creation in tests and sqlite setups
func All() []any {
	return []any{
		&UserModel{},
		&SupplierProposalModel{},
		&SupplierProposalLineModel{},
		&UserBoxModel{},
		&ThirdPartyModel{},
		&InvoiceModel{},
		&SalesOrderModel{},
		&ProposalModel{},
		&ShipmentModel{},
		&DocumentLineModel{},
		&BankLineModel{},
		&PaymentModel{},
		&PaymentInvoiceModel{},
	}
}

// tenantUniqueIndexes include the embedded tenant_id column, which a tag on the
// outer model cannot reference.
var tenantUniqueIndexes = []struct {
	name, table, column string
}{
	{"idx_users_tenant_login", "users", "login"},
	{"idx_supplier_proposals_tenant_ref", "supplier_proposals", "ref"},
}

// Migrate creates every table from the models, then the per-tenant unique indexes
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(All()...); err != nil {
		return err
	}
	for _, idx := range tenantUniqueIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (tenant_id, %s)", idx.name, idx.table, idx.column)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}
