package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Mode selects the kind of business document a batch works on
type Mode string

const (
	ModeInvoice  Mode = "invoice"
	ModeOrder    Mode = "order"
	ModeProposal Mode = "proposal"
	ModeShipment Mode = "shipment"
)

type modeInfo struct {
	table      string
	dateColumn string
	dir        string
}

var modes = map[Mode]modeInfo{
	ModeInvoice:  {table: "invoices", dateColumn: "invoice_date", dir: "invoices"},
	ModeOrder:    {table: "sales_orders", dateColumn: "order_date", dir: "orders"},
	ModeProposal: {table: "proposals", dateColumn: "proposal_date", dir: "proposals"},
	ModeShipment: {table: "shipments", dateColumn: "shipment_date", dir: "shipments"},
}

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if _, ok := modes[m]; !ok {
		return "", fmt.Errorf("bad value for mode: %q", s)
	}
	return m, nil
}

// Modes lists the supported modes in a stable order
func Modes() []Mode {
	return []Mode{ModeInvoice, ModeOrder, ModeProposal, ModeShipment}
}

// Table returns the table holding documents of this mode
func (m Mode) Table() string { return modes[m].table }

// DateColumn returns the column holding the document date
func (m Mode) DateColumn() string { return modes[m].dateColumn }

// OutputDir returns the storage directory of generated files for this mode
func (m Mode) OutputDir() string { return modes[m].dir }

// TenantDir returns the storage directory holding every file of a tenant.
// Refs are only unique within a tenant, so every key starts with it.
func TenantDir(tenantID uuid.UUID) string { return tenantID.String() }

// FileKey returns the storage key of the PDF of the document ref
func (m Mode) FileKey(tenantID uuid.UUID, ref string) string {
	return TenantDir(tenantID) + "/" + m.OutputDir() + "/" + ref + "/" + ref + ".pdf"
}

// InvoiceType distinguishes standard invoices from corrective ones.
// Values are persisted.
type InvoiceType int

const (
	InvoiceTypeStandard    InvoiceType = 0
	InvoiceTypeReplacement InvoiceType = 1
	InvoiceTypeCreditNote  InvoiceType = 2
	InvoiceTypeDeposit     InvoiceType = 3
)

// Document statuses shared by every mode. Zero is draft, anything above was validated.
const (
	StatusDraft     = 0
	StatusValidated = 1
)

// ThirdParty is the customer a document is addressed to
type ThirdParty struct {
	ID       uuid.UUID
	Name     string
	Address  string
	Language string
}

// DocumentLine is a printed line of a document
type DocumentLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal
	TotalHT     decimal.Decimal
	TotalTVA    decimal.Decimal
	TotalTTC    decimal.Decimal
}

// Document is the read model of an invoice, order, proposal or shipment,
// as needed to print it.
type Document struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Mode       Mode
	Ref        string
	Type       InvoiceType
	Status     int
	Date       time.Time
	ModelPDF   string
	Note       string
	ThirdParty ThirdParty
	Lines      []DocumentLine
	TotalHT    decimal.Decimal
	TotalTVA   decimal.Decimal
	TotalTTC   decimal.Decimal
}

// FileKey returns the storage key of the document PDF
func (d *Document) FileKey() string {
	return d.Mode.FileKey(d.TenantID, d.Ref)
}

// DocumentRef is one row of a selection
type DocumentRef struct {
	ID  uuid.UUID
	Ref string
}
