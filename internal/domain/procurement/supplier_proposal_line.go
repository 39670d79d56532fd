package procurement

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbiz/backend/internal/domain/shared"
)

var (
	hundred = decimal.NewFromInt(100)

	// totalsPrecision is the number of decimals kept on line and header totals
	totalsPrecision int32 = 2
)

// LineInput carries the editable values of a proposal line
type LineInput struct {
	Description     string
	ProductID       *uuid.UUID
	UnitPrice       decimal.Decimal // excluding tax
	Quantity        decimal.Decimal
	VATRate         decimal.Decimal // percent
	DiscountPercent decimal.Decimal
}

func (in LineInput) validate() error {
	if in.Quantity.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if in.VATRate.IsNegative() || in.VATRate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_VAT_RATE", "VAT rate must be between 0 and 100")
	}
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100")
	}
	if in.Description == "" && in.ProductID == nil {
		return shared.NewDomainError("INVALID_LINE", "A line needs a description or a product")
	}
	return nil
}

// SupplierProposalLine is a priced line of a supplier proposal
type SupplierProposalLine struct {
	ID              uuid.UUID
	ProposalID      uuid.UUID
	ProductID       *uuid.UUID
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	VATRate         decimal.Decimal
	DiscountPercent decimal.Decimal
	TotalHT         decimal.Decimal
	TotalTVA        decimal.Decimal
	TotalTTC        decimal.Decimal
	Rank            int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func newLine(proposalID uuid.UUID, rank int, in LineInput) (*SupplierProposalLine, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	line := &SupplierProposalLine{
		ID:         uuid.New(),
		ProposalID: proposalID,
		Rank:       rank,
		CreatedAt:  now,
	}
	line.apply(in, now)
	return line, nil
}

func (l *SupplierProposalLine) apply(in LineInput, now time.Time) {
	l.Description = in.Description
	l.ProductID = in.ProductID
	l.UnitPrice = in.UnitPrice
	l.Quantity = in.Quantity
	l.VATRate = in.VATRate
	l.DiscountPercent = in.DiscountPercent
	l.TotalHT, l.TotalTVA, l.TotalTTC = ComputeLineTotals(in.Quantity, in.UnitPrice, in.VATRate, in.DiscountPercent)
	l.UpdatedAt = now
}

// ComputeLineTotals returns the amounts excluding tax, of tax and including tax.
// The first two are rounded independently and the third is their sum.
func ComputeLineTotals(qty, unitPrice, vatRate, discount decimal.Decimal) (ht, tva, ttc decimal.Decimal) {
	factor := hundred.Sub(discount).Div(hundred)
	ht = qty.Mul(unitPrice).Mul(factor).Round(totalsPrecision)
	tva = ht.Mul(vatRate).Div(hundred).Round(totalsPrecision)
	return ht, tva, ht.Add(tva)
}
