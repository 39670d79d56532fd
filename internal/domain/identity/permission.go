package identity

import (
	"strings"

	"github.com/google/uuid"

	"github.com/openbiz/backend/internal/domain/shared"
)

// Permission codes are "<module>:<action>". "<module>:*" grants every action
// of the module and "*" grants everything.
const (
	PermSupplierProposalRead     = "supplier_proposal:read"
	PermSupplierProposalCreate   = "supplier_proposal:create"
	PermSupplierProposalValidate = "supplier_proposal:validate"
	PermSupplierProposalClose    = "supplier_proposal:close"
	PermSupplierProposalDelete   = "supplier_proposal:delete"
	PermSupplierProposalAll      = "supplier_proposal:*"

	PermDocumentMerge = "document:merge"
)

// HasPermission reports whether granted covers perm
func HasPermission(granted []string, perm string) bool {
	module, _, _ := strings.Cut(perm, ":")
	for _, g := range granted {
		if g == perm || g == "*" || g == module+":*" {
			return true
		}
	}
	return false
}

// Actor is the authenticated caller of an application service
type Actor struct {
	TenantID     uuid.UUID
	UserID       uuid.UUID
	ThirdPartyID *uuid.UUID
	Language     string
	Permissions  []string
}

// Can reports whether the actor holds perm
func (a Actor) Can(perm string) bool {
	return HasPermission(a.Permissions, perm)
}

// IsExternal reports whether the actor is a third party contact
func (a Actor) IsExternal() bool {
	return a.ThirdPartyID != nil && *a.ThirdPartyID != uuid.Nil
}

// Require returns a FORBIDDEN error unless the actor holds perm
func (a Actor) Require(perm string) error {
	if a.Can(perm) {
		return nil
	}
	return shared.NewDomainError("FORBIDDEN", "Missing permission "+perm)
}
