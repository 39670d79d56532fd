package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openbiz/backend/internal/domain/sales"
	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/infrastructure/persistence/models"
)

// GormDocumentRepository implements sales.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// Select returns the documents matching the selection. The batch is ordered by
// payment date when a payment filter is set, otherwise by document date when
// the date filter is set, otherwise by ref.
func (r *GormDocumentRepository) Select(ctx context.Context, tenantID uuid.UUID, sel sales.Selection) ([]sales.DocumentRef, error) {
	if err := sel.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	dateCol := "f." + sel.Mode.DateColumn()
	sortKey := "f.ref"
	query := r.db.WithContext(ctx).
		Table(sel.Mode.Table()+" AS f").
		Where("f.tenant_id = ?", tenantID)

	if sel.Has(sales.FilterDate) {
		query = query.Where("f.status > ?", sales.StatusDraft).
			Where(dateCol+" >= ? AND "+dateCol+" <= ?", sel.DateAfter, sel.DateBefore)
		sortKey = dateCol
	}
	if sel.Has(sales.FilterNoPayment) {
		query = query.Joins("LEFT JOIN payment_invoices AS npf ON npf.invoice_id = f.id").
			Where("f.status > ? AND npf.payment_id IS NULL", sales.StatusDraft)
	}
	if sel.Has(sales.FilterPayments) || sel.Has(sales.FilterBank) {
		query = query.
			Joins("JOIN payment_invoices AS pf ON pf.invoice_id = f.id").
			Joins("JOIN payments AS p ON p.id = pf.payment_id").
			Where("f.status > ?", sales.StatusDraft)
		if sel.Has(sales.FilterPayments) {
			query = query.Where("p.payment_date >= ? AND p.payment_date <= ?", sel.PaymentDateAfter, sel.PaymentDateBefore)
		}
		if sel.Has(sales.FilterBank) {
			query = query.Joins("JOIN bank_lines AS b ON b.id = p.bank_line_id").
				Where("b.account_id = ?", sel.BankAccountID)
		}
		sortKey = "p.payment_date"
	}
	if sel.Has(sales.FilterNoDeposit) {
		query = query.Where("f.type <> ?", int(sales.InvoiceTypeDeposit))
	}
	if sel.Has(sales.FilterNoReplacement) {
		query = query.Where("f.type <> ?", int(sales.InvoiceTypeReplacement))
	}
	if sel.Has(sales.FilterNoCreditNote) {
		query = query.Where("f.type <> ?", int(sales.InvoiceTypeCreditNote))
	}
	if sel.Has(sales.FilterExcludeThirdParties) {
		query = query.Where("f.third_party_id NOT IN ?", sel.ThirdPartyIDs)
	}
	if sel.Has(sales.FilterOnlyThirdParties) {
		query = query.Where("f.third_party_id IN ?", sel.ThirdPartyIDs)
	}

	// several payments may match one invoice; group keeps one row per document
	var refs []sales.DocumentRef
	if err := query.
		Select("f.id AS id, f.ref AS ref").
		Group("f.id, f.ref").
		Order("MIN(" + sortKey + ") ASC, f.ref ASC").
		Scan(&refs).Error; err != nil {
		return nil, err
	}
	return refs, nil
}

// Fetch loads a document with its third party and lines
func (r *GormDocumentRepository) Fetch(ctx context.Context, tenantID uuid.UUID, mode sales.Mode, id uuid.UUID) (*sales.Document, error) {
	db := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id)

	var (
		doc          *sales.Document
		thirdPartyID uuid.UUID
		err          error
	)
	switch mode {
	case sales.ModeInvoice:
		var m models.InvoiceModel
		err = db.First(&m).Error
		doc, thirdPartyID = m.ToDomain(), m.ThirdPartyID
	case sales.ModeOrder:
		var m models.SalesOrderModel
		err = db.First(&m).Error
		doc, thirdPartyID = m.ToDomain(), m.ThirdPartyID
	case sales.ModeProposal:
		var m models.ProposalModel
		err = db.First(&m).Error
		doc, thirdPartyID = m.ToDomain(), m.ThirdPartyID
	case sales.ModeShipment:
		var m models.ShipmentModel
		err = db.First(&m).Error
		doc, thirdPartyID = m.ToDomain(), m.ThirdPartyID
	default:
		return nil, fmt.Errorf("%w: bad value for mode %q", shared.ErrInvalidInput, mode)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	var tp models.ThirdPartyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, thirdPartyID).
		First(&tp).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	doc.ThirdParty = tp.ToDomain()
	doc.ThirdParty.ID = thirdPartyID

	var lines []models.DocumentLineModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND document_mode = ? AND document_id = ?", tenantID, string(mode), id).
		Order("rank ASC").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	doc.Lines = make([]sales.DocumentLine, len(lines))
	for i := range lines {
		doc.Lines[i] = lines[i].ToDomain()
	}
	return doc, nil
}
