package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbiz/backend/internal/domain/procurement"
)

// LineRequest carries the values of a proposal line
type LineRequest struct {
	Description     string          `json:"description" binding:"max=2000"`
	ProductID       *uuid.UUID      `json:"product_id"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Quantity        decimal.Decimal `json:"quantity"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

func (r LineRequest) input() procurement.LineInput {
	return procurement.LineInput{
		Description:     r.Description,
		ProductID:       r.ProductID,
		UnitPrice:       r.UnitPrice,
		Quantity:        r.Quantity,
		VATRate:         r.VATRate,
		DiscountPercent: r.DiscountPercent,
	}
}

// CreateSupplierProposalRequest creates a draft
type CreateSupplierProposalRequest struct {
	SupplierID   uuid.UUID     `json:"supplier_id" binding:"required"`
	RefSupplier  string        `json:"ref_supplier" binding:"max=100"`
	NotePublic   string        `json:"note_public"`
	NotePrivate  string        `json:"note_private"`
	ModelPDF     string        `json:"model_pdf" binding:"max=64"`
	DeliveryDate *time.Time    `json:"delivery_date"`
	Lines        []LineRequest `json:"lines" binding:"dive"`
}

// CloseRequest records the supplier answer
type CloseRequest struct {
	Signed bool   `json:"signed"`
	Note   string `json:"note" binding:"max=2000"`
}

// DeliveryDateRequest sets or clears the delivery date
type DeliveryDateRequest struct {
	DeliveryDate *time.Time `json:"delivery_date"`
}

// ListFilter narrows a proposal list
type ListFilter struct {
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Status     string     `form:"status"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	Search     string     `form:"search" binding:"max=100"`
}

// LineResponse is a proposal line
type LineResponse struct {
	ID              uuid.UUID       `json:"id"`
	Rank            int             `json:"rank"`
	ProductID       *uuid.UUID      `json:"product_id,omitempty"`
	Description     string          `json:"description"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TotalHT         decimal.Decimal `json:"total_ht"`
	TotalTVA        decimal.Decimal `json:"total_tva"`
	TotalTTC        decimal.Decimal `json:"total_ttc"`
}

// SupplierProposalResponse is the full view of a proposal
type SupplierProposalResponse struct {
	ID           uuid.UUID       `json:"id"`
	Ref          string          `json:"ref"`
	RefSupplier  string          `json:"ref_supplier,omitempty"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	Status       string          `json:"status"`
	StatusCode   int             `json:"status_code"`
	TotalHT      decimal.Decimal `json:"total_ht"`
	TotalTVA     decimal.Decimal `json:"total_tva"`
	TotalTTC     decimal.Decimal `json:"total_ttc"`
	NotePublic   string          `json:"note_public,omitempty"`
	NotePrivate  string          `json:"note_private,omitempty"`
	ModelPDF     string          `json:"model_pdf,omitempty"`
	DeliveryDate *time.Time      `json:"delivery_date,omitempty"`
	Lines        []LineResponse  `json:"lines"`
	Version      int             `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// InfoResponse is the audit trail of a proposal
type InfoResponse struct {
	ID          uuid.UUID  `json:"id"`
	Ref         string     `json:"ref"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
	ModifiedAt  time.Time  `json:"modified_at"`
	ModifiedBy  *uuid.UUID `json:"modified_by,omitempty"`
	ValidatedAt *time.Time `json:"validated_at,omitempty"`
	ValidatedBy *uuid.UUID `json:"validated_by,omitempty"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
	ClosedBy    *uuid.UUID `json:"closed_by,omitempty"`
}

// ToLineResponse converts a domain line
func ToLineResponse(l procurement.SupplierProposalLine) LineResponse {
	return LineResponse{
		ID:              l.ID,
		Rank:            l.Rank,
		ProductID:       l.ProductID,
		Description:     l.Description,
		Quantity:        l.Quantity,
		UnitPrice:       l.UnitPrice,
		VATRate:         l.VATRate,
		DiscountPercent: l.DiscountPercent,
		TotalHT:         l.TotalHT,
		TotalTVA:        l.TotalTVA,
		TotalTTC:        l.TotalTTC,
	}
}

// ToSupplierProposalResponse converts a domain proposal
func ToSupplierProposalResponse(p *procurement.SupplierProposal) SupplierProposalResponse {
	lines := make([]LineResponse, len(p.Lines))
	for i, l := range p.Lines {
		lines[i] = ToLineResponse(l)
	}
	return SupplierProposalResponse{
		ID:           p.ID,
		Ref:          p.Ref,
		RefSupplier:  p.RefSupplier,
		SupplierID:   p.SupplierID,
		Status:       p.Status.String(),
		StatusCode:   int(p.Status),
		TotalHT:      p.TotalHT,
		TotalTVA:     p.TotalTVA,
		TotalTTC:     p.TotalTTC,
		NotePublic:   p.NotePublic,
		NotePrivate:  p.NotePrivate,
		ModelPDF:     p.ModelPDF,
		DeliveryDate: p.DeliveryDate,
		Lines:        lines,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToInfoResponse converts the audit trail
func ToInfoResponse(info procurement.ProposalInfo) InfoResponse {
	return InfoResponse(info)
}
