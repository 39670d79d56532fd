package procurement

import (
	"context"

	"github.com/google/uuid"

	"github.com/openbiz/backend/internal/domain/shared"
)

// ProposalFilter narrows list queries
type ProposalFilter struct {
	shared.Filter
	Status     *ProposalStatus
	SupplierID *uuid.UUID
	Search     string // matches ref and supplier ref
}

// SupplierProposalRepository persists supplier proposals with their lines
type SupplierProposalRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*SupplierProposal, error)
	FindByRef(ctx context.Context, tenantID uuid.UUID, ref string) (*SupplierProposal, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter ProposalFilter) ([]SupplierProposal, int64, error)
	// Save inserts or updates the proposal and replaces its lines, checking the version
	Save(ctx context.Context, proposal *SupplierProposal) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// DefinitiveRefs returns every non-provisional reference of the tenant
	DefinitiveRefs(ctx context.Context, tenantID uuid.UUID) ([]string, error)
}
