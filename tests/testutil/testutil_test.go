package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/domain/shared"
)

type fakeEvent struct {
	shared.BaseDomainEvent
}

func TestActor(t *testing.T) {
	tenant := uuid.New()

	a := Actor(tenant)
	assert.Equal(t, tenant, a.TenantID)
	assert.True(t, a.Can(identity.PermDocumentMerge))
	assert.False(t, a.IsExternal())

	limited := Actor(tenant, identity.PermSupplierProposalRead)
	assert.False(t, limited.Can(identity.PermSupplierProposalDelete))

	assert.True(t, External(tenant).IsExternal())
}

func TestEventRecorder(t *testing.T) {
	r := NewEventRecorder()
	tenant := uuid.New()
	evt := &fakeEvent{BaseDomainEvent: shared.NewBaseDomainEvent("Tested", "Thing", uuid.New(), tenant)}

	assert.NoError(t, r.Handle(context.Background(), evt))

	assert.Empty(t, r.EventTypes())
	assert.Equal(t, []string{"Tested"}, r.Types())
	assert.Len(t, r.Events(), 1)
}

func TestRequireDomainCode(t *testing.T) {
	RequireDomainCode(t, shared.NewDomainError("INVALID_STATE", "nope"), "INVALID_STATE")
}
