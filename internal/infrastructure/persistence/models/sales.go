package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbiz/backend/internal/domain/sales"
)

// ThirdPartyModel is a customer referenced by sales documents
type ThirdPartyModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(200);not null"`
	Address   string    `gorm:"type:text"`
	Language  string    `gorm:"type:varchar(16)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ThirdPartyModel) TableName() string {
	return "third_parties"
}

// ToDomain converts the model to a sales third party
func (m *ThirdPartyModel) ToDomain() sales.ThirdParty {
	return sales.ThirdParty{ID: m.ID, Name: m.Name, Address: m.Address, Language: m.Language}
}

// SalesDocumentColumns are the columns every printable sales document carries
type SalesDocumentColumns struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Ref          string          `gorm:"type:varchar(30);not null;index"`
	ThirdPartyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status       int             `gorm:"not null;default:0"`
	ModelPDF     string          `gorm:"type:varchar(255)"`
	Note         string          `gorm:"type:text"`
	TotalHT      decimal.Decimal `gorm:"type:decimal(24,8);not null;default:0"`
	TotalTVA     decimal.Decimal `gorm:"type:decimal(24,8);not null;default:0"`
	TotalTTC     decimal.Decimal `gorm:"type:decimal(24,8);not null;default:0"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// document maps the shared columns; date and type are set by the caller
func (c *SalesDocumentColumns) document(mode sales.Mode) *sales.Document {
	return &sales.Document{
		ID:       c.ID,
		TenantID: c.TenantID,
		Mode:     mode,
		Ref:      c.Ref,
		Status:   c.Status,
		ModelPDF: c.ModelPDF,
		Note:     c.Note,
		TotalHT:  c.TotalHT,
		TotalTVA: c.TotalTVA,
		TotalTTC: c.TotalTTC,
	}
}

// InvoiceModel is a customer invoice
type InvoiceModel struct {
	SalesDocumentColumns
	Type        int       `gorm:"not null;default:0"`
	InvoiceDate time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the header; lines and third party are loaded separately
func (m *InvoiceModel) ToDomain() *sales.Document {
	d := m.document(sales.ModeInvoice)
	d.Type = sales.InvoiceType(m.Type)
	d.Date = m.InvoiceDate
	return d
}

// SalesOrderModel is a customer order
type SalesOrderModel struct {
	SalesDocumentColumns
	OrderDate time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SalesOrderModel) TableName() string {
	return "sales_orders"
}

// ToDomain converts the header
func (m *SalesOrderModel) ToDomain() *sales.Document {
	d := m.document(sales.ModeOrder)
	d.Date = m.OrderDate
	return d
}

// ProposalModel is a commercial proposal sent to a customer
type ProposalModel struct {
	SalesDocumentColumns
	ProposalDate time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ProposalModel) TableName() string {
	return "proposals"
}

// ToDomain converts the header
func (m *ProposalModel) ToDomain() *sales.Document {
	d := m.document(sales.ModeProposal)
	d.Date = m.ProposalDate
	return d
}

// ShipmentModel is a delivery sent to a customer
type ShipmentModel struct {
	SalesDocumentColumns
	ShipmentDate time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ShipmentModel) TableName() string {
	return "shipments"
}

// ToDomain converts the header
func (m *ShipmentModel) ToDomain() *sales.Document {
	d := m.document(sales.ModeShipment)
	d.Date = m.ShipmentDate
	return d
}

// DocumentLineModel is a printed line of any sales document
type DocumentLineModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null"`
	DocumentMode string          `gorm:"type:varchar(16);not null;index:idx_document_lines_doc,priority:1"`
	DocumentID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_document_lines_doc,priority:2"`
	Rank         int             `gorm:"not null"`
	Description  string          `gorm:"type:text"`
	Quantity     decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	VATRate      decimal.Decimal `gorm:"column:vat_rate;type:decimal(7,4);not null;default:0"`
	TotalHT      decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	TotalTVA     decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	TotalTTC     decimal.Decimal `gorm:"type:decimal(24,8);not null"`
}

// TableName returns the table name for GORM
func (DocumentLineModel) TableName() string {
	return "document_lines"
}

// ToDomain converts the model to a printed line
func (m *DocumentLineModel) ToDomain() sales.DocumentLine {
	return sales.DocumentLine{
		Description: m.Description,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		VATRate:     m.VATRate,
		TotalHT:     m.TotalHT,
		TotalTVA:    m.TotalTVA,
		TotalTTC:    m.TotalTTC,
	}
}

// BankLineModel is an entry of a bank account statement
type BankLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	AccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	ValueDate time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BankLineModel) TableName() string {
	return "bank_lines"
}

// PaymentModel is a customer payment, optionally reconciled with a bank line
type PaymentModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	PaymentDate time.Time       `gorm:"not null;index"`
	Amount      decimal.Decimal `gorm:"type:decimal(24,8);not null"`
	BankLineID  *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// PaymentInvoiceModel allocates part of a payment to an invoice
type PaymentInvoiceModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PaymentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(24,8);not null"`
}

// TableName returns the table name for GORM
func (PaymentInvoiceModel) TableName() string {
	return "payment_invoices"
}
