package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/openbiz/backend/internal/domain/sales"
	"github.com/openbiz/backend/internal/domain/shared"
	"github.com/openbiz/backend/internal/infrastructure/persistence/models"
)

type invoiceFixture struct {
	db       *gorm.DB
	tenantID uuid.UUID
	customer uuid.UUID
	other    uuid.UUID
	account  uuid.UUID
}

func day(d int) time.Time {
	return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
}

func newInvoiceFixture(t *testing.T) *invoiceFixture {
	f := &invoiceFixture{
		db:       setupTestDB(t),
		tenantID: uuid.New(),
		customer: uuid.New(),
		other:    uuid.New(),
		account:  uuid.New(),
	}
	require.NoError(t, f.db.Create(&[]models.ThirdPartyModel{
		{ID: f.customer, TenantID: f.tenantID, Name: "Acme", Language: "fr_FR"},
		{ID: f.other, TenantID: f.tenantID, Name: "Globex"},
	}).Error)
	return f
}

func (f *invoiceFixture) invoice(t *testing.T, ref string, status int, typ sales.InvoiceType, date time.Time, thirdParty uuid.UUID) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, f.db.Create(&models.InvoiceModel{
		SalesDocumentColumns: models.SalesDocumentColumns{
			ID: id, TenantID: f.tenantID, Ref: ref, ThirdPartyID: thirdParty, Status: status,
		},
		Type:        int(typ),
		InvoiceDate: date,
	}).Error)
	return id
}

func (f *invoiceFixture) pay(t *testing.T, invoiceID uuid.UUID, date time.Time, account uuid.UUID) {
	t.Helper()
	bankLine := models.BankLineModel{ID: uuid.New(), TenantID: f.tenantID, AccountID: account, Amount: decimal.NewFromInt(10), ValueDate: date}
	require.NoError(t, f.db.Create(&bankLine).Error)
	payment := models.PaymentModel{ID: uuid.New(), TenantID: f.tenantID, PaymentDate: date, Amount: decimal.NewFromInt(10), BankLineID: &bankLine.ID}
	require.NoError(t, f.db.Create(&payment).Error)
	require.NoError(t, f.db.Create(&models.PaymentInvoiceModel{
		ID: uuid.New(), PaymentID: payment.ID, InvoiceID: invoiceID, Amount: decimal.NewFromInt(10),
	}).Error)
}

func refsOf(refs []sales.DocumentRef) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Ref
	}
	return out
}

func TestDocumentRepository_Select(t *testing.T) {
	f := newInvoiceFixture(t)
	repo := NewGormDocumentRepository(f.db)
	ctx := context.Background()

	inv1 := f.invoice(t, "FA2609-0001", sales.StatusValidated, sales.InvoiceTypeStandard, day(3), f.customer)
	inv2 := f.invoice(t, "FA2609-0002", sales.StatusValidated, sales.InvoiceTypeDeposit, day(1), f.customer)
	f.invoice(t, "FA2609-0003", sales.StatusValidated, sales.InvoiceTypeCreditNote, day(2), f.other)
	f.invoice(t, "(PROV-1)", sales.StatusDraft, sales.InvoiceTypeStandard, day(2), f.customer)
	inv5 := f.invoice(t, "FA2609-0005", sales.StatusValidated, sales.InvoiceTypeReplacement, day(20), f.other)

	otherAccount := uuid.New()
	f.pay(t, inv1, day(15), f.account)
	f.pay(t, inv1, day(16), f.account)
	f.pay(t, inv2, day(10), otherAccount)
	f.pay(t, inv5, day(5), f.account)

	tests := []struct {
		name string
		sel  sales.Selection
		want []string
	}{
		{
			name: "all includes drafts ordered by ref",
			sel:  sales.Selection{Mode: sales.ModeInvoice, Filters: []sales.Filter{sales.FilterAll}},
			want: []string{"(PROV-1)", "FA2609-0001", "FA2609-0002", "FA2609-0003", "FA2609-0005"},
		},
		{
			name: "date range excludes drafts and orders by date",
			sel: sales.Selection{
				Mode: sales.ModeInvoice, Filters: []sales.Filter{sales.FilterDate},
				DateAfter: day(1), DateBefore: day(10),
			},
			want: []string{"FA2609-0002", "FA2609-0003", "FA2609-0001"},
		},
		{
			name: "no payment",
			sel:  sales.Selection{Mode: sales.ModeInvoice, Filters: []sales.Filter{sales.FilterNoPayment}},
			want: []string{"FA2609-0003"},
		},
		{
			name: "payments in range ordered by payment date without duplicates",
			sel: sales.Selection{
				Mode: sales.ModeInvoice, Filters: []sales.Filter{sales.FilterPayments},
				PaymentDateAfter: day(1), PaymentDateBefore: day(30),
			},
			want: []string{"FA2609-0005", "FA2609-0002", "FA2609-0001"},
		},
		{
			name: "bank account",
			sel: sales.Selection{
				Mode: sales.ModeInvoice, Filters: []sales.Filter{sales.FilterBank}, BankAccountID: f.account,
			},
			want: []string{"FA2609-0005", "FA2609-0001"},
		},
		{
			name: "excluded invoice types",
			sel: sales.Selection{Mode: sales.ModeInvoice, Filters: []sales.Filter{
				sales.FilterAll, sales.FilterNoDeposit, sales.FilterNoReplacement, sales.FilterNoCreditNote,
			}},
			want: []string{"(PROV-1)", "FA2609-0001"},
		},
		{
			name: "only third parties",
			sel: sales.Selection{
				Mode: sales.ModeInvoice, Filters: []sales.Filter{sales.FilterOnlyThirdParties}, ThirdPartyIDs: []uuid.UUID{f.other},
			},
			want: []string{"FA2609-0003", "FA2609-0005"},
		},
		{
			name: "exclude third parties",
			sel: sales.Selection{
				Mode: sales.ModeInvoice, Filters: []sales.Filter{sales.FilterExcludeThirdParties}, ThirdPartyIDs: []uuid.UUID{f.customer},
			},
			want: []string{"FA2609-0003", "FA2609-0005"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := repo.Select(ctx, f.tenantID, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, refsOf(refs))
		})
	}

	t.Run("other tenant sees nothing", func(t *testing.T) {
		refs, err := repo.Select(ctx, uuid.New(), sales.Selection{Mode: sales.ModeInvoice, Filters: []sales.Filter{sales.FilterAll}})
		require.NoError(t, err)
		assert.Empty(t, refs)
	})

	t.Run("invalid selection", func(t *testing.T) {
		_, err := repo.Select(ctx, f.tenantID, sales.Selection{Mode: sales.ModeOrder, Filters: []sales.Filter{sales.FilterNoPayment}})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestDocumentRepository_SelectShipments(t *testing.T) {
	f := newInvoiceFixture(t)
	repo := NewGormDocumentRepository(f.db)

	require.NoError(t, f.db.Create(&models.ShipmentModel{
		SalesDocumentColumns: models.SalesDocumentColumns{ID: uuid.New(), TenantID: f.tenantID, Ref: "SH2609-0001", ThirdPartyID: f.customer, Status: 1},
		ShipmentDate:         day(4),
	}).Error)
	require.NoError(t, f.db.Create(&models.ProposalModel{
		SalesDocumentColumns: models.SalesDocumentColumns{ID: uuid.New(), TenantID: f.tenantID, Ref: "PR2609-0001", ThirdPartyID: f.customer, Status: 1},
		ProposalDate:         day(4),
	}).Error)

	refs, err := repo.Select(context.Background(), f.tenantID, sales.Selection{
		Mode: sales.ModeShipment, Filters: []sales.Filter{sales.FilterDate}, DateAfter: day(1), DateBefore: day(30),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SH2609-0001"}, refsOf(refs))
}

func TestDocumentRepository_Fetch(t *testing.T) {
	f := newInvoiceFixture(t)
	repo := NewGormDocumentRepository(f.db)
	ctx := context.Background()

	id := f.invoice(t, "FA2609-0001", sales.StatusValidated, sales.InvoiceTypeCreditNote, day(3), f.customer)
	for rank, desc := range []string{"Second", "First"} {
		require.NoError(t, f.db.Create(&models.DocumentLineModel{
			ID: uuid.New(), TenantID: f.tenantID, DocumentMode: string(sales.ModeInvoice), DocumentID: id,
			Rank: 2 - rank, Description: desc, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5),
			TotalHT: decimal.NewFromInt(5), TotalTVA: decimal.Zero, TotalTTC: decimal.NewFromInt(5),
		}).Error)
	}

	doc, err := repo.Fetch(ctx, f.tenantID, sales.ModeInvoice, id)
	require.NoError(t, err)
	assert.Equal(t, "FA2609-0001", doc.Ref)
	assert.Equal(t, sales.InvoiceTypeCreditNote, doc.Type)
	assert.Equal(t, "Acme", doc.ThirdParty.Name)
	assert.Equal(t, "fr_FR", doc.ThirdParty.Language)
	require.Len(t, doc.Lines, 2)
	assert.Equal(t, "First", doc.Lines[0].Description)
	assert.Equal(t, f.tenantID, doc.TenantID)
	assert.Equal(t, f.tenantID.String()+"/invoices/FA2609-0001/FA2609-0001.pdf", doc.FileKey())

	_, err = repo.Fetch(ctx, f.tenantID, sales.ModeOrder, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = repo.Fetch(ctx, f.tenantID, sales.Mode("bogus"), id)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
