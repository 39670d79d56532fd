package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbiz/backend/internal/domain/procurement"
)

// SupplierProposalModel is the persistence model of procurement.SupplierProposal
type SupplierProposalModel struct {
	TenantAggregateModel
	Ref          string                      `gorm:"type:varchar(30);not null"`
	RefSupplier  string                      `gorm:"type:varchar(255)"`
	SupplierID   uuid.UUID                   `gorm:"type:uuid;not null;index"`
	Status       int                         `gorm:"not null;default:0;index"`
	TotalHT      decimal.Decimal             `gorm:"type:decimal(24,8);not null;default:0"`
	TotalTVA     decimal.Decimal             `gorm:"type:decimal(24,8);not null;default:0"`
	TotalTTC     decimal.Decimal             `gorm:"type:decimal(24,8);not null;default:0"`
	NotePublic   string                      `gorm:"type:text"`
	NotePrivate  string                      `gorm:"type:text"`
	ModelPDF     string                      `gorm:"type:varchar(255)"`
	DeliveryDate *time.Time
	ModifiedBy   *uuid.UUID                  `gorm:"type:uuid"`
	ValidatedAt  *time.Time
	ValidatedBy  *uuid.UUID                  `gorm:"type:uuid"`
	ClosedAt     *time.Time
	ClosedBy     *uuid.UUID                  `gorm:"type:uuid"`
	Lines        []SupplierProposalLineModel `gorm:"foreignKey:ProposalID;references:ID"`
}

// TableName returns the table name for GORM
func (SupplierProposalModel) TableName() string {
	return "supplier_proposals"
}

// SupplierProposalLineModel is the persistence model of a proposal line
type SupplierProposalLineModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProposalID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       *uuid.UUID      `gorm:"type:uuid"`
	Description     string          `gorm:"type:text"`
	Quantity        decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	VATRate         decimal.Decimal `gorm:"column:vat_rate;type:decimal(7,4);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(7,4);not null;default:0"`
	TotalHT         decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	TotalTVA        decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	TotalTTC        decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	Rank            int             `gorm:"not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SupplierProposalLineModel) TableName() string {
	return "supplier_proposal_lines"
}

// ToDomain converts the model and its preloaded lines to the aggregate
func (m *SupplierProposalModel) ToDomain() *procurement.SupplierProposal {
	p := &procurement.SupplierProposal{
		TenantAggregateRoot: m.Root(),
		Ref:                 m.Ref,
		RefSupplier:         m.RefSupplier,
		SupplierID:          m.SupplierID,
		Status:              procurement.ProposalStatus(m.Status),
		TotalHT:             m.TotalHT,
		TotalTVA:            m.TotalTVA,
		TotalTTC:            m.TotalTTC,
		NotePublic:          m.NotePublic,
		NotePrivate:         m.NotePrivate,
		ModelPDF:            m.ModelPDF,
		DeliveryDate:        m.DeliveryDate,
		ModifiedBy:          m.ModifiedBy,
		ValidatedAt:         m.ValidatedAt,
		ValidatedBy:         m.ValidatedBy,
		ClosedAt:            m.ClosedAt,
		ClosedBy:            m.ClosedBy,
		Lines:               make([]procurement.SupplierProposalLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		p.Lines[i] = procurement.SupplierProposalLine{
			ID:              l.ID,
			ProposalID:      l.ProposalID,
			ProductID:       l.ProductID,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			VATRate:         l.VATRate,
			DiscountPercent: l.DiscountPercent,
			TotalHT:         l.TotalHT,
			TotalTVA:        l.TotalTVA,
			TotalTTC:        l.TotalTTC,
			Rank:            l.Rank,
			CreatedAt:       l.CreatedAt,
			UpdatedAt:       l.UpdatedAt,
		}
	}
	return p
}

// SupplierProposalModelFromDomain converts the aggregate to its model
func SupplierProposalModelFromDomain(p *procurement.SupplierProposal) *SupplierProposalModel {
	m := &SupplierProposalModel{
		Ref:          p.Ref,
		RefSupplier:  p.RefSupplier,
		SupplierID:   p.SupplierID,
		Status:       int(p.Status),
		TotalHT:      p.TotalHT,
		TotalTVA:     p.TotalTVA,
		TotalTTC:     p.TotalTTC,
		NotePublic:   p.NotePublic,
		NotePrivate:  p.NotePrivate,
		ModelPDF:     p.ModelPDF,
		DeliveryDate: p.DeliveryDate,
		ModifiedBy:   p.ModifiedBy,
		ValidatedAt:  p.ValidatedAt,
		ValidatedBy:  p.ValidatedBy,
		ClosedAt:     p.ClosedAt,
		ClosedBy:     p.ClosedBy,
		Lines:        make([]SupplierProposalLineModel, len(p.Lines)),
	}
	m.FromRoot(p.TenantAggregateRoot)
	for i, l := range p.Lines {
		m.Lines[i] = SupplierProposalLineModel{
			ID:              l.ID,
			ProposalID:      p.ID,
			ProductID:       l.ProductID,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			VATRate:         l.VATRate,
			DiscountPercent: l.DiscountPercent,
			TotalHT:         l.TotalHT,
			TotalTVA:        l.TotalTVA,
			TotalTTC:        l.TotalTTC,
			Rank:            l.Rank,
			CreatedAt:       l.CreatedAt,
			UpdatedAt:       l.UpdatedAt,
		}
	}
	return m
}
