package sales

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Filter is a selection rule of a rebuild batch
type Filter string

const (
	FilterAll                 Filter = "all"
	FilterDate                Filter = "date"
	FilterNoPayment           Filter = "nopayment"
	FilterPayments            Filter = "payments"
	FilterBank                Filter = "bank"
	FilterNoDeposit           Filter = "nodeposit"
	FilterNoReplacement       Filter = "noreplacement"
	FilterNoCreditNote        Filter = "nocreditnote"
	FilterExcludeThirdParties Filter = "excludethirdparties"
	FilterOnlyThirdParties    Filter = "onlythirdparties"
)

var knownFilters = []Filter{
	FilterAll, FilterDate, FilterNoPayment, FilterPayments, FilterBank,
	FilterNoDeposit, FilterNoReplacement, FilterNoCreditNote,
	FilterExcludeThirdParties, FilterOnlyThirdParties,
}

// invoiceOnly filters reference payments or invoice types
var invoiceOnly = []Filter{
	FilterNoPayment, FilterPayments, FilterBank,
	FilterNoDeposit, FilterNoReplacement, FilterNoCreditNote,
}

// Selection describes which documents a batch processes
type Selection struct {
	Mode              Mode
	Filters           []Filter
	DateAfter         time.Time
	DateBefore        time.Time
	PaymentDateAfter  time.Time
	PaymentDateBefore time.Time
	BankAccountID     uuid.UUID
	ThirdPartyIDs     []uuid.UUID
}

// Has reports whether f is part of the selection
func (s Selection) Has(f Filter) bool {
	return slices.Contains(s.Filters, f)
}

// Validate checks that every filter has the values it needs
func (s Selection) Validate() error {
	if _, ok := modes[s.Mode]; !ok {
		return fmt.Errorf("bad value for mode: %q", s.Mode)
	}
	var errs []error
	for _, f := range s.Filters {
		if !slices.Contains(knownFilters, f) {
			errs = append(errs, fmt.Errorf("unknown filter %q", f))
			continue
		}
		if s.Mode != ModeInvoice && slices.Contains(invoiceOnly, f) {
			errs = append(errs, fmt.Errorf("filter %q only applies to invoices", f))
		}
	}
	if s.Has(FilterDate) && (s.DateAfter.IsZero() || s.DateBefore.IsZero()) {
		errs = append(errs, errors.New("filter date needs both date bounds"))
	}
	if s.Has(FilterPayments) && (s.PaymentDateAfter.IsZero() || s.PaymentDateBefore.IsZero()) {
		errs = append(errs, errors.New("filter payments needs both payment date bounds"))
	}
	if s.Has(FilterBank) && s.BankAccountID == uuid.Nil {
		errs = append(errs, errors.New("filter bank needs a bank account"))
	}
	if (s.Has(FilterExcludeThirdParties) || s.Has(FilterOnlyThirdParties)) && len(s.ThirdPartyIDs) == 0 {
		errs = append(errs, errors.New("third party filters need at least one third party"))
	}
	return errors.Join(errs...)
}

// DocumentRepository reads printable documents
type DocumentRepository interface {
	// Select returns the id and ref of every document matching the selection, in batch order
	Select(ctx context.Context, tenantID uuid.UUID, sel Selection) ([]DocumentRef, error)
	Fetch(ctx context.Context, tenantID uuid.UUID, mode Mode, id uuid.UUID) (*Document, error)
}
