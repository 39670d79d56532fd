package procurement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// SpecimenRef is the reference printed on specimen proposals
	SpecimenRef = "SPECIMEN"
	// SpecimenLineCount is the number of lines of a specimen proposal
	SpecimenLineCount = 5
)

// NewSpecimen builds a sample draft used for previews, demos and tests. Apart
// from its ids, the result only depends on now.
func NewSpecimen(tenantID, supplierID, author uuid.UUID, now time.Time) (*SupplierProposal, error) {
	p, err := NewSupplierProposal(tenantID, supplierID, author)
	if err != nil {
		return nil, err
	}
	p.Ref = SpecimenRef
	p.RefSupplier = SpecimenRef
	p.NotePublic = "This is a public note"
	p.NotePrivate = "This is a private note"
	p.ModelPDF = "standard"
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	delivery := day.AddDate(0, 0, 15)
	p.DeliveryDate = &delivery

	for i := 1; i <= SpecimenLineCount; i++ {
		_, err := p.AddLine(LineInput{
			Description: fmt.Sprintf("Description %d", i),
			UnitPrice:   decimal.NewFromInt(100),
			Quantity:    decimal.NewFromInt(1),
			VATRate:     decimal.RequireFromString("19.6"),
		})
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}
