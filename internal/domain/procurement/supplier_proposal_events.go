package procurement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbiz/backend/internal/domain/shared"
)

// AggregateTypeSupplierProposal names the aggregate in event envelopes
const AggregateTypeSupplierProposal = "SupplierProposal"

const (
	EventTypeSupplierProposalCreated   = "SupplierProposalCreated"
	EventTypeSupplierProposalValidated = "SupplierProposalValidated"
	EventTypeSupplierProposalClosed    = "SupplierProposalClosed"
	EventTypeSupplierProposalReopened  = "SupplierProposalReopened"
	EventTypeSupplierProposalDeleted   = "SupplierProposalDeleted"
)

// SupplierProposalCreatedEvent is raised when a draft is created
type SupplierProposalCreatedEvent struct {
	shared.BaseDomainEvent
	Ref        string    `json:"ref"`
	SupplierID uuid.UUID `json:"supplier_id"`
}

// NewSupplierProposalCreatedEvent creates the event from the new proposal
func NewSupplierProposalCreatedEvent(p *SupplierProposal) *SupplierProposalCreatedEvent {
	return &SupplierProposalCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierProposalCreated, AggregateTypeSupplierProposal, p.ID, p.TenantID),
		Ref:             p.Ref,
		SupplierID:      p.SupplierID,
	}
}

// SupplierProposalValidatedEvent is raised when a draft gets its definitive reference
type SupplierProposalValidatedEvent struct {
	shared.BaseDomainEvent
	Ref        string          `json:"ref"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	TotalHT    decimal.Decimal `json:"total_ht"`
	TotalTTC   decimal.Decimal `json:"total_ttc"`
}

// NewSupplierProposalValidatedEvent creates the event from the validated proposal
func NewSupplierProposalValidatedEvent(p *SupplierProposal) *SupplierProposalValidatedEvent {
	return &SupplierProposalValidatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierProposalValidated, AggregateTypeSupplierProposal, p.ID, p.TenantID),
		Ref:             p.Ref,
		SupplierID:      p.SupplierID,
		TotalHT:         p.TotalHT,
		TotalTTC:        p.TotalTTC,
	}
}

// SupplierProposalClosedEvent is raised on sign, refusal and classification
type SupplierProposalClosedEvent struct {
	shared.BaseDomainEvent
	Ref    string `json:"ref"`
	Status string `json:"status"`
}

// NewSupplierProposalClosedEvent creates the event from the closed proposal
func NewSupplierProposalClosedEvent(p *SupplierProposal) *SupplierProposalClosedEvent {
	return &SupplierProposalClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierProposalClosed, AggregateTypeSupplierProposal, p.ID, p.TenantID),
		Ref:             p.Ref,
		Status:          p.Status.String(),
	}
}

// SupplierProposalReopenedEvent is raised when a proposal goes one step back
type SupplierProposalReopenedEvent struct {
	shared.BaseDomainEvent
	Ref        string `json:"ref"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
}

// NewSupplierProposalReopenedEvent creates the event from the reopened proposal
func NewSupplierProposalReopenedEvent(p *SupplierProposal, from ProposalStatus) *SupplierProposalReopenedEvent {
	return &SupplierProposalReopenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierProposalReopened, AggregateTypeSupplierProposal, p.ID, p.TenantID),
		Ref:             p.Ref,
		FromStatus:      from.String(),
		ToStatus:        p.Status.String(),
	}
}

// SupplierProposalDeletedEvent is raised once the proposal is removed
type SupplierProposalDeletedEvent struct {
	shared.BaseDomainEvent
	Ref       string    `json:"ref"`
	DeletedBy uuid.UUID `json:"deleted_by"`
}

// NewSupplierProposalDeletedEvent creates the deletion event
func NewSupplierProposalDeletedEvent(p *SupplierProposal, by uuid.UUID) *SupplierProposalDeletedEvent {
	return &SupplierProposalDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSupplierProposalDeleted, AggregateTypeSupplierProposal, p.ID, p.TenantID),
		Ref:             p.Ref,
		DeletedBy:       by,
	}
}
