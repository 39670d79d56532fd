package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbiz/backend/internal/domain/shared"
)

// ProposalStatus is the lifecycle state of a supplier proposal.
// Values are persisted, do not renumber.
type ProposalStatus int

const (
	StatusDraft     ProposalStatus = 0
	StatusValidated ProposalStatus = 1
	StatusSigned    ProposalStatus = 2
	StatusNotSigned ProposalStatus = 3
	StatusClosed    ProposalStatus = 4
)

var statusLabels = map[ProposalStatus]string{
	StatusDraft:     "draft",
	StatusValidated: "validated",
	StatusSigned:    "signed",
	StatusNotSigned: "not_signed",
	StatusClosed:    "closed",
}

// IsValid reports whether s is a known status
func (s ProposalStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// String returns the status label
func (s ProposalStatus) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// ParseProposalStatus converts a label back to a status
func ParseProposalStatus(label string) (ProposalStatus, bool) {
	for s, l := range statusLabels {
		if l == strings.ToLower(label) {
			return s, true
		}
	}
	return 0, false
}

// CanTransitionTo checks the lifecycle graph
func (s ProposalStatus) CanTransitionTo(target ProposalStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusValidated
	case StatusValidated:
		return target == StatusSigned || target == StatusNotSigned || target == StatusDraft
	case StatusSigned:
		return target == StatusClosed || target == StatusValidated
	case StatusNotSigned:
		return target == StatusValidated
	}
	return false
}

// SupplierProposal is a price request sent to a supplier and the answer it received
type SupplierProposal struct {
	shared.TenantAggregateRoot
	Ref          string
	RefSupplier  string
	SupplierID   uuid.UUID
	Status       ProposalStatus
	Lines        []SupplierProposalLine
	TotalHT      decimal.Decimal
	TotalTVA     decimal.Decimal
	TotalTTC     decimal.Decimal
	NotePublic   string
	NotePrivate  string
	ModelPDF     string
	DeliveryDate *time.Time
	ModifiedBy   *uuid.UUID
	ValidatedAt  *time.Time
	ValidatedBy  *uuid.UUID
	ClosedAt     *time.Time
	ClosedBy     *uuid.UUID
}

// ProposalInfo is the audit trail shown on the information tab
type ProposalInfo struct {
	ID          uuid.UUID
	Ref         string
	CreatedAt   time.Time
	CreatedBy   *uuid.UUID
	ModifiedAt  time.Time
	ModifiedBy  *uuid.UUID
	ValidatedAt *time.Time
	ValidatedBy *uuid.UUID
	ClosedAt    *time.Time
	ClosedBy    *uuid.UUID
}

// NewSupplierProposal creates a draft proposal carrying a provisional reference
func NewSupplierProposal(tenantID, supplierID, author uuid.UUID) (*SupplierProposal, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if author == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AUTHOR", "Author is required")
	}
	p := &SupplierProposal{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID, &author),
		SupplierID:          supplierID,
		Status:              StatusDraft,
		Lines:               make([]SupplierProposalLine, 0),
	}
	p.Ref = ProvisionalRef(p.ID)
	p.AddDomainEvent(NewSupplierProposalCreatedEvent(p))
	return p, nil
}

// ProvisionalRef is the reference a draft carries until validation
func ProvisionalRef(id uuid.UUID) string {
	return "(PROV" + strings.ToUpper(id.String()[:8]) + ")"
}

// IsProvisionalRef reports whether ref was produced by ProvisionalRef
func IsProvisionalRef(ref string) bool {
	return strings.HasPrefix(ref, "(PROV")
}

// IsDraft reports whether the proposal can still be edited
func (p *SupplierProposal) IsDraft() bool {
	return p.Status == StatusDraft
}

// AddLine appends a line and recomputes totals. Only drafts accept lines.
func (p *SupplierProposal) AddLine(in LineInput) (*SupplierProposalLine, error) {
	if !p.IsDraft() {
		return nil, shared.NewDomainError("INVALID_STATE", "Lines can only be added to a draft proposal")
	}
	line, err := newLine(p.ID, p.nextRank(), in)
	if err != nil {
		return nil, err
	}
	p.Lines = append(p.Lines, *line)
	p.recalculateTotals()
	p.IncrementVersion()
	return line, nil
}

// UpdateLine replaces the values of an existing line
func (p *SupplierProposal) UpdateLine(lineID uuid.UUID, in LineInput) error {
	if !p.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be changed on a draft proposal")
	}
	if err := in.validate(); err != nil {
		return err
	}
	for i := range p.Lines {
		if p.Lines[i].ID == lineID {
			p.Lines[i].apply(in, time.Now())
			p.recalculateTotals()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Proposal line not found")
}

// RemoveLine deletes a line and renumbers the remaining ones
func (p *SupplierProposal) RemoveLine(lineID uuid.UUID) error {
	if !p.IsDraft() {
		return shared.NewDomainError("INVALID_STATE", "Lines can only be removed from a draft proposal")
	}
	for i := range p.Lines {
		if p.Lines[i].ID == lineID {
			p.Lines = append(p.Lines[:i], p.Lines[i+1:]...)
			for j := range p.Lines {
				p.Lines[j].Rank = j + 1
			}
			p.recalculateTotals()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Proposal line not found")
}

// Validate freezes the draft. ref is used only when the proposal has never been
// numbered, a proposal reopened and validated again keeps its reference.
func (p *SupplierProposal) Validate(ref string, by uuid.UUID) error {
	if p.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot validate a proposal in status %s", p.Status))
	}
	if len(p.Lines) == 0 {
		return shared.NewDomainError("EMPTY_PROPOSAL", "Cannot validate a proposal without lines")
	}
	if IsProvisionalRef(p.Ref) {
		if ref == "" || IsProvisionalRef(ref) {
			return shared.NewDomainError("INVALID_REF", "A definitive reference is required")
		}
		p.Ref = ref
	}
	now := time.Now()
	p.Status = StatusValidated
	p.ValidatedAt = &now
	p.ValidatedBy = &by
	p.ModifiedBy = &by
	p.IncrementVersion()
	p.AddDomainEvent(NewSupplierProposalValidatedEvent(p))
	return nil
}

// Reopen moves a validated or answered proposal one step back
func (p *SupplierProposal) Reopen(by uuid.UUID) error {
	var target ProposalStatus
	switch p.Status {
	case StatusValidated:
		target = StatusDraft
	case StatusSigned, StatusNotSigned:
		target = StatusValidated
	default:
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reopen a proposal in status %s", p.Status))
	}
	from := p.Status
	p.Status = target
	p.ClosedAt = nil
	p.ClosedBy = nil
	p.ModifiedBy = &by
	p.IncrementVersion()
	p.AddDomainEvent(NewSupplierProposalReopenedEvent(p, from))
	return nil
}

// Close records the supplier answer: signed (accepted) or not signed (refused)
func (p *SupplierProposal) Close(signed bool, note string, by uuid.UUID) error {
	target := StatusNotSigned
	if signed {
		target = StatusSigned
	}
	if p.Status != StatusValidated {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close a proposal in status %s", p.Status))
	}
	p.transitionClosed(target, by)
	if note != "" {
		if p.NotePrivate != "" {
			p.NotePrivate += "\n"
		}
		p.NotePrivate += note
	}
	p.AddDomainEvent(NewSupplierProposalClosedEvent(p))
	return nil
}

// Classify marks a signed proposal as processed
func (p *SupplierProposal) Classify(by uuid.UUID) error {
	if !p.Status.CanTransitionTo(StatusClosed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot classify a proposal in status %s", p.Status))
	}
	p.transitionClosed(StatusClosed, by)
	p.AddDomainEvent(NewSupplierProposalClosedEvent(p))
	return nil
}

func (p *SupplierProposal) transitionClosed(target ProposalStatus, by uuid.UUID) {
	now := time.Now()
	p.Status = target
	p.ClosedAt = &now
	p.ClosedBy = &by
	p.ModifiedBy = &by
	p.IncrementVersion()
}

// SetDeliveryDate sets or clears the expected delivery date
func (p *SupplierProposal) SetDeliveryDate(date *time.Time, by uuid.UUID) {
	p.DeliveryDate = date
	p.ModifiedBy = &by
	p.IncrementVersion()
}

// SetNotes replaces both notes
func (p *SupplierProposal) SetNotes(public, private string, by uuid.UUID) {
	p.NotePublic = public
	p.NotePrivate = private
	p.ModifiedBy = &by
	p.IncrementVersion()
}

// MarkDeleted records the deletion event. Deletion is allowed in every status.
func (p *SupplierProposal) MarkDeleted(by uuid.UUID) {
	p.AddDomainEvent(NewSupplierProposalDeletedEvent(p, by))
}

// Info returns the audit trail
func (p *SupplierProposal) Info() ProposalInfo {
	return ProposalInfo{
		ID:          p.ID,
		Ref:         p.Ref,
		CreatedAt:   p.CreatedAt,
		CreatedBy:   p.CreatedBy,
		ModifiedAt:  p.UpdatedAt,
		ModifiedBy:  p.ModifiedBy,
		ValidatedAt: p.ValidatedAt,
		ValidatedBy: p.ValidatedBy,
		ClosedAt:    p.ClosedAt,
		ClosedBy:    p.ClosedBy,
	}
}

func (p *SupplierProposal) nextRank() int {
	rank := 0
	for _, l := range p.Lines {
		if l.Rank > rank {
			rank = l.Rank
		}
	}
	return rank + 1
}

func (p *SupplierProposal) recalculateTotals() {
	ht, tva := decimal.Zero, decimal.Zero
	for _, l := range p.Lines {
		ht = ht.Add(l.TotalHT)
		tva = tva.Add(l.TotalTVA)
	}
	p.TotalHT = ht
	p.TotalTVA = tva
	p.TotalTTC = ht.Add(tva)
}
