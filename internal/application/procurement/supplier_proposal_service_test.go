package procurement

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/openbiz/backend/internal/domain/identity"
	"github.com/openbiz/backend/internal/domain/procurement"
	"github.com/openbiz/backend/internal/domain/shared"
)

// memoryRepository keeps proposals in a map and enforces the version and ref checks of the SQL one
type memoryRepository struct {
	mu        sync.Mutex
	proposals map[uuid.UUID]procurement.SupplierProposal
	// takenRefs are definitive references of proposals stored elsewhere
	takenRefs []string
	// raceRef is committed by a concurrent validation right before Save uses it
	raceRef string
	saves   int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{proposals: make(map[uuid.UUID]procurement.SupplierProposal)}
}

func clone(p procurement.SupplierProposal) *procurement.SupplierProposal {
	p.Lines = append([]procurement.SupplierProposalLine(nil), p.Lines...)
	p.ClearDomainEvents()
	return &p
}

func (r *memoryRepository) FindByID(_ context.Context, tenantID, id uuid.UUID) (*procurement.SupplierProposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.proposals[id]
	if !ok || p.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return clone(p), nil
}

func (r *memoryRepository) FindByRef(_ context.Context, tenantID uuid.UUID, ref string) (*procurement.SupplierProposal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.proposals {
		if p.TenantID == tenantID && p.Ref == ref {
			return clone(p), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepository) FindAll(_ context.Context, tenantID uuid.UUID, f procurement.ProposalFilter) ([]procurement.SupplierProposal, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []procurement.SupplierProposal
	for _, p := range r.proposals {
		if p.TenantID != tenantID || (f.Status != nil && p.Status != *f.Status) {
			continue
		}
		out = append(out, *clone(p))
	}
	return out, int64(len(out)), nil
}

func (r *memoryRepository) Save(_ context.Context, p *procurement.SupplierProposal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if cur, ok := r.proposals[p.ID]; ok && cur.Version >= p.Version {
		return shared.ErrConflict
	}
	if r.raceRef != "" && p.Ref == r.raceRef {
		r.takenRefs = append(r.takenRefs, r.raceRef)
		r.raceRef = ""
		return shared.ErrAlreadyExists
	}
	r.proposals[p.ID] = *clone(*p)
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.proposals[id]; !ok || p.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.proposals, id)
	return nil
}

func (r *memoryRepository) DefinitiveRefs(_ context.Context, tenantID uuid.UUID) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	refs := append([]string(nil), r.takenRefs...)
	for _, p := range r.proposals {
		if p.TenantID == tenantID && !procurement.IsProvisionalRef(p.Ref) {
			refs = append(refs, p.Ref)
		}
	}
	return refs, nil
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := make([]any, 0, len(events)+1)
	args = append(args, ctx)
	for _, e := range events {
		args = append(args, e)
	}
	return m.Called(args...).Error(0)
}

func (m *MockEventPublisher) types() []string {
	var out []string
	for _, c := range m.Calls {
		for _, a := range c.Arguments[1:] {
			out = append(out, a.(shared.DomainEvent).EventType())
		}
	}
	return out
}

func fullActor() identity.Actor {
	return identity.Actor{TenantID: uuid.New(), UserID: uuid.New(), Permissions: []string{identity.PermSupplierProposalAll}}
}

func line(desc string, price, qty, vat string) LineRequest {
	return LineRequest{
		Description: desc,
		UnitPrice:   decimal.RequireFromString(price),
		Quantity:    decimal.RequireFromString(qty),
		VATRate:     decimal.RequireFromString(vat),
	}
}

func newTestService() (*SupplierProposalService, *memoryRepository, *MockEventPublisher) {
	repo := newMemoryRepository()
	pub := new(MockEventPublisher)
	pub.On("Publish", mock.Anything).Return(nil).Maybe()
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()
	svc := NewSupplierProposalService(repo, nil)
	svc.SetEventPublisher(pub)
	svc.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	return svc, repo, pub
}

func TestSupplierProposalService_Lifecycle(t *testing.T) {
	svc, _, pub := newTestService()
	ctx := context.Background()
	actor := fullActor()

	created, err := svc.Create(ctx, actor, CreateSupplierProposalRequest{SupplierID: uuid.New(), RefSupplier: " SUP-42 "})
	require.NoError(t, err)
	assert.True(t, procurement.IsProvisionalRef(created.Ref))
	assert.Equal(t, "SUP-42", created.RefSupplier)
	assert.Equal(t, "draft", created.Status)

	fetched, err := svc.GetByID(ctx, actor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Ref, fetched.Ref)

	l, err := svc.AddLine(ctx, actor, created.ID, line("Steel bolts", "10", "1", "10"))
	require.NoError(t, err)
	assert.Equal(t, 1, l.Rank)
	assert.True(t, decimal.RequireFromString("11").Equal(l.TotalTTC))

	validated, err := svc.Validate(ctx, actor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "SPR2610-0001", validated.Ref)
	assert.Equal(t, "validated", validated.Status)

	info, err := svc.Info(ctx, actor, created.ID)
	require.NoError(t, err)
	assert.False(t, info.CreatedAt.IsZero())
	require.NotNil(t, info.ValidatedBy)
	assert.Equal(t, actor.UserID, *info.ValidatedBy)

	closed, err := svc.Close(ctx, actor, created.ID, CloseRequest{Signed: true, Note: "ok by phone"})
	require.NoError(t, err)
	assert.Equal(t, "signed", closed.Status)

	classified, err := svc.Classify(ctx, actor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "closed", classified.Status)

	require.NoError(t, svc.Delete(ctx, actor, created.ID))
	_, err = svc.GetByID(ctx, actor, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.Equal(t, []string{
		procurement.EventTypeSupplierProposalCreated,
		procurement.EventTypeSupplierProposalValidated,
		procurement.EventTypeSupplierProposalClosed,
		procurement.EventTypeSupplierProposalClosed,
		procurement.EventTypeSupplierProposalDeleted,
	}, pub.types())
}

func TestSupplierProposalService_Numbering(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	actor := fullActor()
	repo.takenRefs = []string{"SPR2609-0007"}

	req := CreateSupplierProposalRequest{SupplierID: uuid.New(), Lines: []LineRequest{line("x", "1", "1", "0")}}
	a, err := svc.Create(ctx, actor, req)
	require.NoError(t, err)
	b, err := svc.Create(ctx, actor, req)
	require.NoError(t, err)

	va, err := svc.Validate(ctx, actor, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "SPR2610-0008", va.Ref, "counter continues across months")

	vb, err := svc.Validate(ctx, actor, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "SPR2610-0009", vb.Ref)

	// reopen and validate again keeps the reference
	_, err = svc.Reopen(ctx, actor, a.ID)
	require.NoError(t, err)
	again, err := svc.Validate(ctx, actor, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "SPR2610-0008", again.Ref)
}

func TestSupplierProposalService_ValidateRetriesTakenRef(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	actor := fullActor()

	p, err := svc.Create(ctx, actor, CreateSupplierProposalRequest{SupplierID: uuid.New(), Lines: []LineRequest{line("x", "1", "1", "0")}})
	require.NoError(t, err)

	// the first attempt computes 0001, which another transaction commits meanwhile
	repo.raceRef = "SPR2610-0001"
	saves := repo.saves

	v, err := svc.Validate(ctx, actor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "validated", v.Status)
	assert.Equal(t, "SPR2610-0002", v.Ref)
	assert.Equal(t, saves+2, repo.saves)
}

func TestSupplierProposalService_Permissions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	owner := fullActor()
	created, err := svc.Create(ctx, owner, CreateSupplierProposalRequest{SupplierID: uuid.New()})
	require.NoError(t, err)

	reader := owner
	reader.Permissions = []string{identity.PermSupplierProposalRead}

	_, err = svc.GetByID(ctx, reader, created.ID)
	assert.NoError(t, err)
	_, err = svc.Create(ctx, reader, CreateSupplierProposalRequest{SupplierID: uuid.New()})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = svc.AddLine(ctx, reader, created.ID, line("x", "1", "1", "0"))
	assert.ErrorIs(t, err, shared.ErrForbidden)
	_, err = svc.Validate(ctx, reader, created.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, reader, created.ID), shared.ErrForbidden)

	other := fullActor()
	_, err = svc.GetByID(ctx, other, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "other tenants do not see the proposal")
}

func TestSupplierProposalService_StateRules(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	actor := fullActor()

	_, err := svc.Create(ctx, actor, CreateSupplierProposalRequest{})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_SUPPLIER", derr.Code)

	p, err := svc.Create(ctx, actor, CreateSupplierProposalRequest{SupplierID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.Validate(ctx, actor, p.ID)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "EMPTY_PROPOSAL", derr.Code)

	_, err = svc.AddLine(ctx, actor, p.ID, line("zero", "1", "0", "0"))
	assert.Error(t, err)

	l, err := svc.AddLine(ctx, actor, p.ID, line("a", "100", "2", "20"))
	require.NoError(t, err)
	updated, err := svc.UpdateLine(ctx, actor, p.ID, l.ID, line("a", "100", "3", "20"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("360").Equal(updated.TotalTTC))

	_, err = svc.Validate(ctx, actor, p.ID)
	require.NoError(t, err)
	_, err = svc.AddLine(ctx, actor, p.ID, line("late", "1", "1", "0"))
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)

	_, err = svc.Classify(ctx, actor, p.ID)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_STATE", derr.Code)

	// refused then reopened
	refused, err := svc.Close(ctx, actor, p.ID, CloseRequest{Signed: false})
	require.NoError(t, err)
	assert.Equal(t, "not_signed", refused.Status)
	reopened, err := svc.Reopen(ctx, actor, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "validated", reopened.Status)
}

func TestSupplierProposalService_DeleteLineAndDelivery(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	actor := fullActor()

	p, err := svc.Create(ctx, actor, CreateSupplierProposalRequest{
		SupplierID: uuid.New(),
		Lines:      []LineRequest{line("a", "10", "1", "0"), line("b", "20", "1", "0")},
	})
	require.NoError(t, err)
	require.Len(t, p.Lines, 2)

	after, err := svc.DeleteLine(ctx, actor, p.ID, p.Lines[0].ID)
	require.NoError(t, err)
	require.Len(t, after.Lines, 1)
	assert.Equal(t, 1, after.Lines[0].Rank)
	assert.True(t, decimal.NewFromInt(20).Equal(after.TotalHT))

	date := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	withDate, err := svc.SetDeliveryDate(ctx, actor, p.ID, &date)
	require.NoError(t, err)
	require.NotNil(t, withDate.DeliveryDate)
	assert.True(t, date.Equal(*withDate.DeliveryDate))
}

func TestSupplierProposalService_ListAndSpecimen(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	actor := fullActor()

	spec, err := svc.CreateSpecimen(ctx, actor, uuid.New())
	require.NoError(t, err)
	assert.Len(t, spec.Lines, procurement.SpecimenLineCount)
	assert.True(t, procurement.IsProvisionalRef(spec.Ref), spec.Ref)
	assert.Equal(t, procurement.SpecimenRef, spec.RefSupplier)

	byRef, err := svc.GetByRef(ctx, actor, spec.Ref)
	require.NoError(t, err)
	assert.Equal(t, spec.ID, byRef.ID)

	items, total, err := svc.List(ctx, actor, ListFilter{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)

	items, _, err = svc.List(ctx, actor, ListFilter{Status: "validated"})
	require.NoError(t, err)
	assert.Empty(t, items)

	_, _, err = svc.List(ctx, actor, ListFilter{Status: "pending"})
	assert.Error(t, err)
}
